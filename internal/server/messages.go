package server

import (
	"fmt"
	"strings"

	"github.com/louisbranch/hollowfall/internal/platform/i18n"
	"github.com/louisbranch/hollowfall/internal/world/entity"
	"github.com/louisbranch/hollowfall/internal/world/interaction"
)

// fallbackVerb backs any verb the catalog does not know.
const fallbackVerb = "work"

// defaultCatalogs holds the action feedback templates. Performer-facing
// texts are plain; observer texts take the performer name.
var defaultCatalogs = map[string]map[string]string{
	"en-US": {
		"action.work.start.self":      "You get to work.",
		"action.work.start.other":     "%s gets to work.",
		"action.work.finish.self":     "You finish working.",
		"action.work.finish.other":    "%s finishes working.",
		"action.pry.start.self":       "You wedge the crowbar in and start prying.",
		"action.pry.start.other":      "%s starts prying at the barricade.",
		"action.pry.finish.self":      "You pry it open.",
		"action.pry.finish.other":     "%s pries it open.",
		"action.tighten.start.self":   "You start tightening the bolts.",
		"action.tighten.start.other":  "%s starts tightening the bolts.",
		"action.tighten.finish.self":  "You tighten the last bolt.",
		"action.tighten.finish.other": "%s tightens the last bolt.",
		"action.cut.start.self":       "You start cutting the wire fence.",
		"action.cut.start.other":      "%s starts cutting the wire fence.",
		"action.cut.finish.self":      "You cut through the fence.",
		"action.cut.finish.other":     "%s cuts through the fence.",
		"action.weld.start.self":      "You strike an arc and start welding.",
		"action.weld.start.other":     "%s starts welding the plating.",
		"action.weld.finish.self":     "You finish the weld seam.",
		"action.weld.finish.other":    "%s finishes the weld seam.",
	},
	"pt-BR": {
		"action.work.start.self":   "Você começa a trabalhar.",
		"action.work.start.other":  "%s começa a trabalhar.",
		"action.work.finish.self":  "Você termina o trabalho.",
		"action.work.finish.other": "%s termina o trabalho.",
		"action.pry.start.self":    "Você encaixa o pé de cabra e começa a forçar.",
		"action.pry.start.other":   "%s começa a forçar a barricada.",
		"action.pry.finish.self":   "Você consegue abrir.",
		"action.pry.finish.other":  "%s consegue abrir.",
	},
}

// DefaultMessages returns the built-in action message bundle.
func DefaultMessages() *i18n.Bundle {
	bundle, err := i18n.New(defaultCatalogs)
	if err != nil {
		// The embedded catalogs always include the base locale.
		panic(err)
	}
	return bundle
}

// messagesFor resolves the four action texts for a verb, falling back to
// the generic work verb when the catalog lacks an entry.
func (s *Server) messagesFor(locale, verb string, performer entity.Ref) interaction.Messages {
	return interaction.Messages{
		StartSelf:    s.lookupText(locale, verb, "start.self", performer),
		StartOthers:  s.lookupText(locale, verb, "start.other", performer),
		FinishSelf:   s.lookupText(locale, verb, "finish.self", performer),
		FinishOthers: s.lookupText(locale, verb, "finish.other", performer),
	}
}

func (s *Server) lookupText(locale, verb, suffix string, performer entity.Ref) string {
	if verb == "" {
		verb = fallbackVerb
	}
	template, ok := s.messages.Message(locale, "action."+verb+"."+suffix)
	if !ok {
		template, _ = s.messages.Message(locale, "action."+fallbackVerb+"."+suffix)
	}
	if !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, performer)
}
