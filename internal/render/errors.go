package render

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TemplateError is a handlebars parse or evaluation failure, annotated with
// the offending line and the source around it when the position is known.
type TemplateError struct {
	File    string
	Line    int
	Message string
	Context []string
}

func NewTemplateError(file string, err error) *TemplateError {
	te := &TemplateError{
		File:    file,
		Message: err.Error(),
	}

	te.parseError(err.Error())
	te.loadContext()
	te.cleanMessage()

	return te
}

var (
	parseErrorRe = regexp.MustCompile(`(?s)^Parse error on line (\d+):\s*(.+)$`)
	evalErrorRe  = regexp.MustCompile(`(?s)^Evaluation error: (.+?)(\nCurrent node:.*)?$`)
)

func (te *TemplateError) parseError(errStr string) {
	// Parse error on line 3:
	// Expecting OpenEndBlock, got: 'EOF'
	if matches := parseErrorRe.FindStringSubmatch(errStr); len(matches) > 2 {
		if line, err := strconv.Atoi(matches[1]); err == nil {
			te.Line = line
		}
		te.Message = matches[2]
		return
	}

	// Evaluation errors carry no position.
	if matches := evalErrorRe.FindStringSubmatch(errStr); len(matches) > 1 {
		te.Message = matches[1]
	}
}

func (te *TemplateError) loadContext() {
	if te.Line == 0 {
		return
	}

	file, err := os.Open(te.File)
	if err != nil {
		return
	}
	defer func() {
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	lineNum := 1
	var lines []string

	for scanner.Scan() {
		line := scanner.Text()
		if lineNum >= te.Line-2 && lineNum <= te.Line+2 {
			lines = append(lines, line)
		}
		if lineNum > te.Line+2 {
			break
		}
		lineNum++
	}

	te.Context = lines
}

func (te *TemplateError) cleanMessage() {
	te.Message = strings.Join(strings.Fields(te.Message), " ")
	te.Message = strings.ReplaceAll(te.Message, "Expecting", "expected")
}

func (te *TemplateError) Error() string {
	return te.format()
}

func (te *TemplateError) format() string {
	if te.Line == 0 {
		return fmt.Sprintf("Template error in %s: %s", te.File, te.Message)
	}

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	fileStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Underline(true)
	lineNumStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorLineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	contextStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))

	var sb strings.Builder

	sb.WriteString(errorStyle.Render("Template Error") + "\n\n")
	sb.WriteString(fileStyle.Render(fmt.Sprintf("%s:%d", te.File, te.Line)) + "\n\n")

	if len(te.Context) > 0 {
		startLine := max(te.Line-2, 1)

		for i, line := range te.Context {
			currentLine := startLine + i
			lineNumStr := fmt.Sprintf("%4d │ ", currentLine)

			if currentLine == te.Line {
				sb.WriteString(errorLineStyle.Render(lineNumStr))
				sb.WriteString(errorLineStyle.Render(line) + "\n")
			} else {
				sb.WriteString(lineNumStyle.Render(lineNumStr))
				sb.WriteString(contextStyle.Render(line) + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(errorStyle.Render("Error: ") + te.Message + "\n")

	return sb.String()
}
