// Command widgetgen scans the widget kind packages and regenerates the
// registry artifacts: the kind key constants, the logic registry mapping keys
// to descriptor instances and the UI registry mapping keys to component and
// form functions. Kinds self-register by carrying a widgetgen marker; no
// central file is edited by hand.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	defaultKindsDirectory  = "internal/widget/kinds"
	defaultOutputDirectory = "internal/widget/registry"

	kindLogicFileName = "widget.go"
	kindUIFileName    = "components.go"

	outputFileNameTypes = "zz_generated_types.go"
	outputFileNameLogic = "zz_generated_logic.go"
	outputFileNameUI    = "zz_generated_ui.go"

	kindsImportPathPrefix = "github.com/BoraResearchLab/dashboard_svc/internal/widget/kinds/"
	widgetImportPath      = "github.com/BoraResearchLab/dashboard_svc/internal/widget"

	generatedFileHeader = "// Code generated by widgetgen. DO NOT EDIT.\n\npackage registry\n"

	generatedFileMode = 0o644
)

var (
	errNoKindsDiscovered = errors.New("widgetgen: no widget kinds discovered")

	typeMarkerPattern  = regexp.MustCompile(`(?m)^// widgetgen:type ([A-Za-z][A-Za-z0-9-]*)\s*$`)
	constructorPattern = regexp.MustCompile(`(?m)^func NewDescriptor\(\)`)
	componentPattern   = regexp.MustCompile(`(?m)^func ([A-Z]\w*Component)\(`)
	formPattern        = regexp.MustCompile(`(?m)^func ([A-Z]\w*Form)\(`)
)

type kindInfo struct {
	directoryName string
	typeKey       string
	componentName string
	formName      string
	hasUI         bool
}

func main() {
	kindsDirectory := defaultKindsDirectory
	outputDirectory := defaultOutputDirectory
	if len(os.Args) > 1 {
		kindsDirectory = os.Args[1]
	}
	if len(os.Args) > 2 {
		outputDirectory = os.Args[2]
	}

	kinds, warnings, scanErr := scanKinds(kindsDirectory)
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "widgetgen: warning: %s\n", warning)
	}
	if scanErr != nil {
		fmt.Fprintf(os.Stderr, "widgetgen: %v\n", scanErr)
		os.Exit(1)
	}

	outputs := map[string]string{
		outputFileNameTypes: renderTypesFile(kinds),
		outputFileNameLogic: renderLogicFile(kinds),
		outputFileNameUI:    renderUIFile(kinds),
	}
	for fileName, content := range outputs {
		outputPath := filepath.Join(outputDirectory, fileName)
		if writeErr := os.WriteFile(outputPath, []byte(content), generatedFileMode); writeErr != nil {
			fmt.Fprintf(os.Stderr, "widgetgen: write %s: %v\n", outputPath, writeErr)
			os.Exit(1)
		}
	}
}

// scanKinds walks the kind directories in name order and extracts each kind's
// declared type key and exported component and form symbols. A kind with a
// descriptor but no view and form pair is kept logic-only with a warning; a
// view and form pair without a descriptor is excluded with a warning.
// Discovering zero kinds is a build failure, never silently empty registries.
func scanKinds(kindsDirectory string) ([]kindInfo, []string, error) {
	entries, readErr := os.ReadDir(kindsDirectory)
	if readErr != nil {
		return nil, nil, fmt.Errorf("widgetgen: read kinds directory: %w", readErr)
	}

	var directoryNames []string
	for _, entry := range entries {
		if entry.IsDir() {
			directoryNames = append(directoryNames, entry.Name())
		}
	}
	sort.Strings(directoryNames)

	var kinds []kindInfo
	var warnings []string
	for _, directoryName := range directoryNames {
		typeKey, logicFound := scanLogicFile(filepath.Join(kindsDirectory, directoryName, kindLogicFileName))
		componentName, formName, uiFound := scanUIFile(filepath.Join(kindsDirectory, directoryName, kindUIFileName))

		if !logicFound {
			if uiFound {
				warnings = append(warnings, fmt.Sprintf("%s: component and form found without a descriptor, kind excluded", directoryName))
			}
			continue
		}
		if !uiFound {
			warnings = append(warnings, fmt.Sprintf("%s: descriptor found without a component and form pair, kind is logic-only", directoryName))
		}

		kinds = append(kinds, kindInfo{
			directoryName: directoryName,
			typeKey:       typeKey,
			componentName: componentName,
			formName:      formName,
			hasUI:         uiFound,
		})
	}

	if len(kinds) == 0 {
		return nil, warnings, errNoKindsDiscovered
	}
	return kinds, warnings, nil
}

func scanLogicFile(logicFilePath string) (string, bool) {
	content, readErr := os.ReadFile(logicFilePath)
	if readErr != nil {
		return "", false
	}
	markerMatch := typeMarkerPattern.FindSubmatch(content)
	if markerMatch == nil || !constructorPattern.Match(content) {
		return "", false
	}
	return string(markerMatch[1]), true
}

func scanUIFile(uiFilePath string) (string, string, bool) {
	content, readErr := os.ReadFile(uiFilePath)
	if readErr != nil {
		return "", "", false
	}
	componentMatch := componentPattern.FindSubmatch(content)
	formMatch := formPattern.FindSubmatch(content)
	if componentMatch == nil || formMatch == nil {
		return "", "", false
	}
	return string(componentMatch[1]), string(formMatch[1]), true
}

func constantName(typeKey string) string {
	return "Type" + strings.ReplaceAll(typeKey, "-", "")
}

func renderTypesFile(kinds []kindInfo) string {
	var builder strings.Builder
	builder.WriteString(generatedFileHeader)
	builder.WriteString("\n// Widget kind keys discovered from internal/widget/kinds.\nconst (\n")
	alignment := 0
	for _, kind := range kinds {
		if len(constantName(kind.typeKey)) > alignment {
			alignment = len(constantName(kind.typeKey))
		}
	}
	for _, kind := range kinds {
		builder.WriteString(fmt.Sprintf("\t%-*s = %q\n", alignment, constantName(kind.typeKey), kind.typeKey))
	}
	builder.WriteString(")\n\n// AllTypes lists every discovered kind key in discovery order.\nvar AllTypes = []string{\n")
	for _, kind := range kinds {
		builder.WriteString(fmt.Sprintf("\t%s,\n", constantName(kind.typeKey)))
	}
	builder.WriteString("}\n")
	return builder.String()
}

func renderImports(kinds []kindInfo, uiOnly bool) string {
	var builder strings.Builder
	builder.WriteString("\nimport (\n")
	builder.WriteString(fmt.Sprintf("\t%q\n", widgetImportPath))
	for _, kind := range kinds {
		if uiOnly && !kind.hasUI {
			continue
		}
		builder.WriteString(fmt.Sprintf("\t%q\n", kindsImportPathPrefix+kind.directoryName))
	}
	builder.WriteString(")\n")
	return builder.String()
}

// mapKeyAlignment returns the gofmt column width of the widest map key,
// including its colon, so emitted map literals are already formatted.
func mapKeyAlignment(kinds []kindInfo, uiOnly bool) int {
	alignment := 0
	for _, kind := range kinds {
		if uiOnly && !kind.hasUI {
			continue
		}
		if width := len(constantName(kind.typeKey)) + 1; width > alignment {
			alignment = width
		}
	}
	return alignment
}

func renderLogicFile(kinds []kindInfo) string {
	var builder strings.Builder
	builder.WriteString(generatedFileHeader)
	builder.WriteString(renderImports(kinds, false))
	builder.WriteString("\n// logicDescriptors maps every discovered kind key to its descriptor instance.\n")
	builder.WriteString("func logicDescriptors() map[string]widget.Descriptor {\n\treturn map[string]widget.Descriptor{\n")
	alignment := mapKeyAlignment(kinds, false)
	for _, kind := range kinds {
		builder.WriteString(fmt.Sprintf("\t\t%-*s %s.NewDescriptor(),\n", alignment, constantName(kind.typeKey)+":", kind.directoryName))
	}
	builder.WriteString("\t}\n}\n")
	return builder.String()
}

func renderUIFile(kinds []kindInfo) string {
	var builder strings.Builder
	builder.WriteString(generatedFileHeader)
	builder.WriteString(renderImports(kinds, true))
	builder.WriteString("\n// uiBindings maps every kind key with a detected view and form component pair\n// to its UI binding.\n")
	builder.WriteString("func uiBindings() map[string]widget.UIBinding {\n\treturn map[string]widget.UIBinding{\n")
	alignment := mapKeyAlignment(kinds, true)
	for _, kind := range kinds {
		if !kind.hasUI {
			continue
		}
		builder.WriteString(fmt.Sprintf("\t\t%-*s {Component: %s.%s, Form: %s.%s},\n",
			alignment, constantName(kind.typeKey)+":", kind.directoryName, kind.componentName, kind.directoryName, kind.formName))
	}
	builder.WriteString("\t}\n}\n")
	return builder.String()
}
