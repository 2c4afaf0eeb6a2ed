package enrich

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are a perfumery expert. For the chemical '%s', provide:
1. Whether it is typically a Top, Middle, or Base note.
2. Its Odour Class (floral, woody, citrus, musky, spicy, etc.).
3. Its pH value (only value no sentence).
If data is missing, infer realistic values based on its known properties.
Return exactly in this format:
` + LabelNote + ` ...
` + LabelOdour + ` ...
` + LabelPH + ` ...`

// BuildPrompt renders the enrichment prompt for a substance name.
func BuildPrompt(name string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(name))
}
