package i18n

import "testing"

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	bundle, err := New(map[string]map[string]string{
		"en-US": {
			"greet": "Hello",
			"part":  "Goodbye",
		},
		"pt-BR": {
			"greet": "Olá",
		},
	})
	if err != nil {
		t.Fatalf("new bundle: %v", err)
	}
	return bundle
}

func TestNewRequiresBaseLocale(t *testing.T) {
	if _, err := New(map[string]map[string]string{"pt-BR": {}}); err == nil {
		t.Fatal("expected error without base locale")
	}
}

func TestResolve(t *testing.T) {
	bundle := testBundle(t)

	tests := []struct {
		locale string
		want   string
	}{
		{locale: "en-US", want: "en-US"},
		{locale: "pt-BR", want: "pt-BR"},
		{locale: "pt", want: "pt-BR"},
		{locale: "fr-FR", want: "en-US"},
		{locale: "not a tag", want: "en-US"},
		{locale: "", want: "en-US"},
	}
	for _, tc := range tests {
		if got := bundle.Resolve(tc.locale); got != tc.want {
			t.Fatalf("Resolve(%q) = %q, want %q", tc.locale, got, tc.want)
		}
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	bundle := testBundle(t)

	if got, ok := bundle.Message("pt-BR", "greet"); !ok || got != "Olá" {
		t.Fatalf("Message(pt-BR, greet) = (%q, %v), want Olá", got, ok)
	}
	// pt-BR lacks "part"; fall back to the base catalog.
	if got, ok := bundle.Message("pt-BR", "part"); !ok || got != "Goodbye" {
		t.Fatalf("Message(pt-BR, part) = (%q, %v), want Goodbye", got, ok)
	}
	if _, ok := bundle.Message("en-US", "missing"); ok {
		t.Fatal("Message returned ok for unknown key")
	}
}
