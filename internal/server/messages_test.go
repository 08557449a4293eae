package server

import (
	"testing"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{HTTPAddr: ":0"}, testWorld())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMessagesForKnownVerb(t *testing.T) {
	s := testServer(t)

	msgs := s.messagesFor("en-US", "pry", "survivor")
	if msgs.StartSelf != "You wedge the crowbar in and start prying." {
		t.Fatalf("start self = %q", msgs.StartSelf)
	}
	if msgs.StartOthers != "survivor starts prying at the barricade." {
		t.Fatalf("start others = %q", msgs.StartOthers)
	}
	if msgs.FinishSelf != "You pry it open." {
		t.Fatalf("finish self = %q", msgs.FinishSelf)
	}
	if msgs.FinishOthers != "survivor pries it open." {
		t.Fatalf("finish others = %q", msgs.FinishOthers)
	}
}

func TestMessagesForUnknownVerbFallsBack(t *testing.T) {
	s := testServer(t)

	msgs := s.messagesFor("en-US", "juggle", "survivor")
	if msgs.StartSelf != "You get to work." {
		t.Fatalf("start self = %q, want work fallback", msgs.StartSelf)
	}
	if msgs.StartOthers != "survivor gets to work." {
		t.Fatalf("start others = %q, want work fallback", msgs.StartOthers)
	}
}

func TestMessagesForEmptyVerb(t *testing.T) {
	s := testServer(t)

	msgs := s.messagesFor("en-US", "", "survivor")
	if msgs.FinishSelf != "You finish working." {
		t.Fatalf("finish self = %q, want work fallback", msgs.FinishSelf)
	}
}

func TestMessagesForLocale(t *testing.T) {
	s := testServer(t)

	msgs := s.messagesFor("pt-BR", "pry", "survivor")
	if msgs.StartSelf != "Você encaixa o pé de cabra e começa a forçar." {
		t.Fatalf("start self = %q", msgs.StartSelf)
	}

	// pt-BR lacks weld entries; the base locale backs them.
	weld := s.messagesFor("pt-BR", "weld", "survivor")
	if weld.StartSelf != "You strike an arc and start welding." {
		t.Fatalf("weld start self = %q, want base locale text", weld.StartSelf)
	}
}
