package usecase

import "github.com/tutravel/intake-bot/internal/entity"

// messageSet holds every prompt of the flow for one language. The texts are
// the production copy; keep the 1-5 numbering in sync with serviceMenu.
type messageSet struct {
	askName       string
	repromptName  string
	askEmail      string
	repromptEmail string
	menu          string
	repromptMenu  string
	askCity       string
	askDates      string
	askPax        string
	repromptPax   string
	handoff       string

	somethingWrong   string
	didNotUnderstand string

	// dateSeparator is the word between the two dates of a range answer.
	dateSeparator string
}

var messagesByLanguage = map[entity.Language]messageSet{
	entity.LanguageES: {
		askName:          "¡Hola! ¿Tu nombre completo?",
		repromptName:     "¿Me confirmas nombre y apellido?",
		askEmail:         "¿Cuál es tu correo?",
		repromptEmail:    "Ese correo no parece válido, ¿puedes revisarlo?",
		menu:             "¿Qué necesitas hoy?\n1) Villas\n2) Boats\n3) Weddings\n4) Concierge\n5) Hablar con ventas",
		repromptMenu:     "Elige 1–5, por favor.",
		askCity:          "Cuéntame la ciudad",
		askDates:         "¿Fechas del servicio? (ej: 2025-09-10 a 2025-09-15)",
		askPax:           "¿Para cuántas personas?",
		repromptPax:      "Número, por favor.",
		handoff:          "Listo 🙌 Te conecto con el equipo de ventas. ¡Gracias!",
		somethingWrong:   "Ups, algo salió mal de nuestro lado. ¿Me repites tu último mensaje?",
		didNotUnderstand: "No te entendí, ¿puedes repetir?",
		dateSeparator:    "a",
	},
	entity.LanguageEN: {
		askName:          "Hi! What's your full name?",
		repromptName:     "Could you share name and last name?",
		askEmail:         "What's your email?",
		repromptEmail:    "That email looks invalid, mind checking it?",
		menu:             "What do you need today?\n1) Villas\n2) Boats\n3) Weddings\n4) Concierge\n5) Talk to sales",
		repromptMenu:     "Choose 1–5, please.",
		askCity:          "Which city?",
		askDates:         "What dates? (e.g. 2025-09-10 to 2025-09-15)",
		askPax:           "How many people?",
		repromptPax:      "A number, please.",
		handoff:          "All set 🙌 Connecting you with sales, thanks!",
		somethingWrong:   "Oops, something went wrong on our side. Mind sending that again?",
		didNotUnderstand: "Sorry, I didn't get that.",
		dateSeparator:    "to",
	},
}

// messagesFor defaults to Spanish, which also covers the first turn where
// the language is not fixed yet.
func messagesFor(lang entity.Language) messageSet {
	if msgs, ok := messagesByLanguage[lang]; ok {
		return msgs
	}
	return messagesByLanguage[entity.LanguageES]
}
