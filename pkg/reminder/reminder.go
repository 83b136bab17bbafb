// Package reminder renders the payment reminder messages staff copy
// into WhatsApp or mail. Four tones, same three fields: first name,
// full name, remaining balance.
package reminder

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/streetfamily/roster/pkg/models"
)

// Style selects the tone of the message.
type Style string

const (
	Casual Style = "casual"
	Formal Style = "formal"
	Urgent Style = "urgent"
	Fun    Style = "fun"
)

// Styles lists the available tones in menu order.
var Styles = []Style{Casual, Formal, Urgent, Fun}

var templates = map[Style]*template.Template{
	Casual: template.Must(template.New("casual").Parse(
		"Salut {{.FirstName}} ! 👋\nPetite relance concernant ton inscription Street Family. Il reste un solde de {{.Balance}}€ à régler.\nTu peux faire ça quand tu as un moment ? Merci !")),
	Formal: template.Must(template.New("formal").Parse(
		"Bonjour {{.FirstName}},\nSauf erreur de notre part, le paiement pour l'inscription Street Family n'a pas encore été finalisé.\nMontant restant : {{.Balance}}€.\nMerci de régulariser la situation dès que possible.\nCordialement,\nL'équipe Street Family.")),
	Urgent: template.Must(template.New("urgent").Parse(
		"URGENT - Paiement Street Family\n\nBonjour {{.FirstName}},\nNous n'avons toujours pas reçu le paiement de {{.Balance}}€.\nC'est le dernier rappel avant suspension de l'inscription.\nMerci de régler cela aujourd'hui.")),
	Fun: template.Must(template.New("fun").Parse(
		"Hé {{.FirstName}} ! 🕺\nTa place est bien au chaud chez Street Family, mais ton paiement s'est perdu en route !\nIl reste {{.Balance}}€ à régler pour que tout soit carré.\nMerci d'avance !")),
}

type fields struct {
	FirstName string
	Name      string
	Balance   string
}

// Render builds the reminder message for a student in the given style.
func Render(s *models.Student, style Style) (string, error) {
	tmpl, ok := templates[style]
	if !ok {
		return "", fmt.Errorf("unknown reminder style %q", style)
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, fields{
		FirstName: FirstName(s.Name),
		Name:      s.Name,
		Balance:   fmt.Sprintf("%.2f", s.Remaining),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render reminder: %w", err)
	}
	return buf.String(), nil
}

// FirstName extracts the first name from a "Nom Prénom" cell: the last
// word, since the sheets put the family name first.
func FirstName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
