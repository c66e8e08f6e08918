package ai

import (
	"fmt"
	"slices"
	"strings"

	"agendapro/models"

	"github.com/shopspring/decimal"
)

const (
	defaultBasePrompt = "Você é um atendente humano, conversando com um cliente final que deseja contratar um serviço. " +
		"Fale em português do Brasil, de forma natural, acolhedora e clara. " +
		"Faça perguntas objetivas, uma por vez, para entender serviço desejado, preferências de horário e dados de contato. " +
		"Evite jargões e longas listas, ofereça opções quando necessário e confirme detalhes antes de prosseguir."

	defaultGuidance = "Objetivo: ajudar o cliente final a escolher e contratar um serviço, conduzindo um agendamento quando apropriado. " +
		"Estilo: humano, cordial, claro, sem jargões. Uma pergunta por vez. Frases curtas. Use emojis com moderação. " +
		"Fluxo: apresente-se; identifique serviço; colete preferências de horário; solicite nome e contato; " +
		"reconfirme dados (serviço, data, hora, preço, duração); peça confirmação final; agradeça e informe próximos passos. " +
		"Boas práticas: evite listas longas; proponha opções; peça esclarecimentos quando necessário; " +
		"mantenha tom amigável e profissional; não exponha detalhes internos do sistema."

	// custom instructions shorter than this are ignored in favour of defaultGuidance
	minGuidanceLen = 5

	groundingSlots = 12
)

func systemPrompt(base string, s models.Settings) string {
	if strings.TrimSpace(base) == "" {
		base = defaultBasePrompt
	}
	guidance := defaultGuidance
	if len([]rune(strings.TrimSpace(s.CustomInstructions))) >= minGuidanceLen {
		guidance = s.CustomInstructions
	}
	return fmt.Sprintf("%s\n\nNome do atendente: %s\nTom de voz preferido: %s\n\nDiretrizes personalizadas:\n%s",
		base, s.AssistantName, s.Tone, guidance)
}

func catalogText(services []models.Service) string {
	var sb strings.Builder
	sb.WriteString("Serviços disponíveis:")
	for _, s := range services {
		fmt.Fprintf(&sb, "\n• %s - R$ %s, %dmin", s.Name, decimal.NewFromFloat(s.Price).StringFixed(2), s.DurationMin)
	}
	return sb.String()
}

// groundingText summarizes availability of date for the model: at most
// groundingSlots free and occupied starts, and the status of the requested time.
func groundingText(date string, durationMin int, av models.Availability, requested string) string {
	status := "sem horário específico"
	if requested != "" {
		switch {
		case slices.Contains(av.Occupied, requested):
			status = requested + " está ocupado"
		case slices.Contains(av.Free, requested):
			status = requested + " está livre"
		default:
			status = requested + " está fora do horário"
		}
	}
	if av.Closed {
		return fmt.Sprintf("Disponibilidade (%s, %dmin): fechado neste dia | pedido: %s.", date, durationMin, status)
	}
	return fmt.Sprintf("Disponibilidade (%s, %dmin): livres: %s | ocupados: %s | pedido: %s.",
		date, durationMin,
		strings.Join(firstN(av.Free, groundingSlots), ", "),
		strings.Join(firstN(av.Occupied, groundingSlots), ", "),
		status)
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

type promptInput struct {
	basePrompt string
	settings   models.Settings
	services   []models.Service
	grounding  string
	history    []models.ChatMessage
	message    string
}

// buildMessages orders the request as system instruction, catalog, optional
// grounding, history, then the new user message.
func buildMessages(in promptInput) []models.ChatMessage {
	msgs := make([]models.ChatMessage, 0, len(in.history)+4)
	msgs = append(msgs,
		models.ChatMessage{Role: models.RoleSystem, Content: systemPrompt(in.basePrompt, in.settings)},
		models.ChatMessage{Role: models.RoleSystem, Content: catalogText(in.services)},
	)
	if in.grounding != "" {
		msgs = append(msgs, models.ChatMessage{Role: models.RoleSystem, Content: in.grounding})
	}
	msgs = append(msgs, in.history...)
	msgs = append(msgs, models.ChatMessage{Role: models.RoleUser, Content: in.message})
	return msgs
}

// matchService returns the first service whose name occurs in message, ignoring case.
func matchService(services []models.Service, message string) (models.Service, bool) {
	lower := strings.ToLower(message)
	for _, s := range services {
		if s.Name != "" && strings.Contains(lower, strings.ToLower(s.Name)) {
			return s, true
		}
	}
	return models.Service{}, false
}
