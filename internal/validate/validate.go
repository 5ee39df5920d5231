// Package validate cleans and minimally repairs generated code text.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
	"github.com/darkxdd/FigmaCursor-sub000/internal/metadata"
)

var (
	fenceRe       = regexp.MustCompile("(?s)^```[a-zA-Z]*\\n?|\\n?```\\s*$")
	declRe        = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?(?:function|const|class|let|var)\s+([A-Za-z_$][\w$]*)`)
	importRe      = regexp.MustCompile(`(?m)^\s*import\s`)
	exportRe      = regexp.MustCompile(`(?m)^\s*export\s`)
	sourceMarkRe  = regexp.MustCompile(`(?m)^\s*(?:import\s|function\s|const\s|class\s|let\s|var\s|export\s)`)
	baselineImport = "import React from 'react';"
)

// Clean validates generated text and returns normalized code. Surrounding
// code fences and whitespace are stripped; text without any recognizable
// source marker is rejected rather than returned partially repaired. A
// missing baseline import is prepended and a missing export marker is
// appended, referencing the first declared identifier.
func Clean(text string) (string, error) {
	const op = "validate.Clean"
	code := strings.TrimSpace(text)
	code = fenceRe.ReplaceAllString(code, "")
	code = strings.TrimSpace(code)

	if code == "" || !sourceMarkRe.MatchString(code) {
		return "", apperr.New(op, apperr.KindInvalidCode,
			fmt.Errorf("no recognizable source declarations in generated text"))
	}

	if !importRe.MatchString(code) {
		code = baselineImport + "\n\n" + code
	}
	if !exportRe.MatchString(code) {
		if name := firstDeclaration(code); name != "" {
			code += "\n\nexport default " + name + ";"
		}
	}
	return code, nil
}

func firstDeclaration(code string) string {
	m := declRe.FindStringSubmatch(code)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// Enhance re-injects literal dimension, background, and padding values
// from the source metadata into the primary style object when the
// generated code omitted them. It is a fidelity floor independent of
// whether the generation service honored the prompt.
func Enhance(code string, m *metadata.Simplified) string {
	if m == nil {
		return code
	}
	var missing []string
	if m.Width > 0 && !strings.Contains(code, "width") {
		missing = append(missing, fmt.Sprintf("width: '%.0fpx'", m.Width))
	}
	if m.Height > 0 && !strings.Contains(code, "height") {
		missing = append(missing, fmt.Sprintf("height: '%.0fpx'", m.Height))
	}
	if bg := backgroundOf(m); bg != "" && !strings.Contains(code, "background") {
		missing = append(missing, fmt.Sprintf("backgroundColor: '%s'", bg))
	}
	if m.Layout != nil && m.Layout.PaddingTop > 0 && !strings.Contains(code, "padding") {
		missing = append(missing, fmt.Sprintf("padding: '%.0fpx %.0fpx %.0fpx %.0fpx'",
			m.Layout.PaddingTop, m.Layout.PaddingRight, m.Layout.PaddingBottom, m.Layout.PaddingLeft))
	}
	if len(missing) == 0 {
		return code
	}

	// Merge into an existing inline style object when one is present,
	// otherwise record the floor values as a trailing style constant.
	if idx := strings.Index(code, "style={{"); idx >= 0 {
		insertAt := idx + len("style={{")
		return code[:insertAt] + " " + strings.Join(missing, ", ") + "," + code[insertAt:]
	}
	return code + "\n\nconst baseStyle = { " + strings.Join(missing, ", ") + " };"
}

func backgroundOf(m *metadata.Simplified) string {
	if m.BackgroundColor != "" {
		return m.BackgroundColor
	}
	if len(m.Fills) > 0 {
		return m.Fills[0]
	}
	return ""
}
