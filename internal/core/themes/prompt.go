package themes

import "strings"

const (
	promptIntro = "Analyse l'avis client ci-dessous et identifie les thèmes qu'il aborde parmi la liste suivante."
	promptScale = "Pour chaque thème abordé, attribue une note de 1 (très insatisfait) à 5 (très satisfait). " +
		"N'utilise que les noms de thèmes exacts de la liste et ignore les thèmes absents de l'avis."
	promptShape = `Réponds uniquement avec un objet JSON de la forme {"themes": [{"theme": "<nom exact>", "note": <nombre entre 1 et 5>}]}, sans texte autour.`
)

// Prompt builds the user message for one verbatim
func (c *Catalog) Prompt(verbatim string) string {
	var b strings.Builder
	b.Grow(len(verbatim) + 160*len(c.Themes) + 512)

	b.WriteString(promptIntro)
	b.WriteString("\n\nThèmes :\n")
	for _, t := range c.Themes {
		b.WriteString("- ")
		b.WriteString(t.Name)
		if t.Description != "" {
			b.WriteString(" : ")
			b.WriteString(t.Description)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(promptScale)
	b.WriteString("\n")
	b.WriteString(promptShape)
	b.WriteString("\n\nAvis client :\n\"")
	b.WriteString(verbatim)
	b.WriteString("\"")
	return b.String()
}
