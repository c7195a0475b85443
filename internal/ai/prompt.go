// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"bytes"
	"fmt"
	"text/template"
)

// describePromptTmpl asks for a short hint shown before the word is revealed.
var describePromptTmpl = template.Must(template.New("describe").Parse(`Provide a very concise definition or a short descriptive phrase for the word "{{.Word}}". The description should be suitable as a brief hint before seeing the word itself. For example, for 'apple', a good description might be 'A common fruit'. For 'photosynthesis', 'Process plants use to make food'. Return only the description, without any introductory phrases like 'The word means...' or 'Description: '.`))

// rephrasePromptTmpl asks for N variants of a prompt, one per line.
var rephrasePromptTmpl = template.Must(template.New("rephrase").Parse(`Rephrase the following question or statement in {{.Count}} different ways, maintaining its core meaning. Each rephrased version should be distinct. Return only the rephrased versions, each on a new line, without any numbering or prefixes.

Original: "{{.Text}}"

Rephrased versions:`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
