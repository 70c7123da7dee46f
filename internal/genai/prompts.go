package genai

import (
	"fmt"

	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

// bodyPrompt builds the generation instruction for the email body. Unknown
// template values use the general variant.
func bodyPrompt(r models.Recipient, template string) string {
	header := fmt.Sprintf(`personalizado en español para:
- Nombre: %s
- Ciudad: %s
- Categoría de interés: %s

El email debe:
`, r.FirstName, r.City, r.InterestCategory)

	switch template {
	case models.TemplatePromotional:
		return "Crea un email promocional " + header + `- Ser amigable y profesional
- Mencionar su ciudad de manera natural
- Incluir una oferta relevante a su categoría de interés
- Tener un llamado a la acción claro
- Ser de máximo 200 palabras
- Solo devolver el cuerpo del email, sin asunto`
	case models.TemplateInformational:
		return "Crea un email informativo " + header + `- Compartir información valiosa sobre su categoría de interés
- Ser educativo y útil
- Mencionar su ubicación de manera contextual
- Mantener un tono profesional pero cercano
- Ser de máximo 200 palabras
- Solo devolver el cuerpo del email, sin asunto`
	case models.TemplateWelcome:
		return "Crea un email de bienvenida " + header + `- Dar la bienvenida de manera cálida
- Agradecer su interés
- Mencionar qué pueden esperar basado en su categoría de interés
- Incluir información relevante para su ciudad
- Ser acogedor y profesional
- Ser de máximo 200 palabras
- Solo devolver el cuerpo del email, sin asunto`
	default:
		return "Crea un email " + header + `- Ser personalizado y relevante
- Mantener un tono profesional pero amigable
- Mencionar de manera natural su ciudad y categoría de interés
- Incluir valor para el cliente
- Ser de máximo 200 palabras
- Solo devolver el cuerpo del email, sin asunto`
	}
}

// subjectPrompt builds the generation instruction for the subject line.
func subjectPrompt(r models.Recipient, template string) string {
	switch template {
	case models.TemplatePromotional:
		return fmt.Sprintf(`Crea un asunto de email promocional atractivo en español para:
- Nombre: %s
- Ciudad: %s
- Categoría de interés: %s

El asunto debe ser llamativo, personalizado y de máximo 50 caracteres. Solo devuelve el asunto, nada más.`,
			r.FirstName, r.City, r.InterestCategory)
	case models.TemplateInformational:
		return fmt.Sprintf(`Crea un asunto de email informativo en español para:
- Nombre: %s
- Categoría de interés: %s

El asunto debe ser claro, profesional y de máximo 50 caracteres. Solo devuelve el asunto, nada más.`,
			r.FirstName, r.InterestCategory)
	default:
		return fmt.Sprintf(`Crea un asunto de email personalizado en español para:
- Nombre: %s
- Categoría de interés: %s

El asunto debe ser atractivo, personalizado y de máximo 50 caracteres. Solo devuelve el asunto, nada más.`,
			r.FirstName, r.InterestCategory)
	}
}
