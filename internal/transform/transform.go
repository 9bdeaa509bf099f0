// Package transform converts batches of persisted widget records plus a map of
// resolved data values into frontend view-models.
package transform

import (
	"math"

	"github.com/expr-lang/expr"
	"go.uber.org/zap"

	"github.com/BoraResearchLab/dashboard_svc/internal/latex"
	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

const (
	logEventExpressionFailed = "expression_eval_failed"
	logEventMissingDataID    = "missing_data_id"
	logFieldExpression       = "expression"
	logFieldDataID           = "data_id"

	scopeNameSquareRoot = "sqrt"
)

// physicalConstants is the fixed evaluation scope available to every
// calculation expression alongside the resolved data values.
var physicalConstants = map[string]float64{
	"c":        299792458,
	"G":        6.67430e-11,
	"h":        6.62607e-34,
	"g":        9.80665,
	"epsilon0": 8.854187817e-12,
	"mu0":      1.2566370614e-6,
	"pi":       math.Pi,
	"e":        math.E,
}

// Pipeline dispatches persisted records through the widget registry and
// resolves each data-driven widget's transient value.
type Pipeline struct {
	registry *widget.Registry
	logger   *zap.Logger
}

// NewPipeline creates a Pipeline using the given registry.
func NewPipeline(registry *widget.Registry, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{registry: registry, logger: logger}
}

// Transform decodes every record into its view-model, preserving input order.
// An unknown type key or a properties decode failure aborts the whole batch:
// both indicate data corruption that must surface as a load failure rather
// than a silently shortened widget list.
func (pipeline *Pipeline) Transform(records []model.Widget, resolvedData map[string]float64) ([]widget.ViewModel, error) {
	viewModels := make([]widget.ViewModel, 0, len(records))
	for _, record := range records {
		entry, lookupErr := pipeline.registry.Lookup(record.Type)
		if lookupErr != nil {
			return nil, lookupErr
		}

		viewModel, decodeErr := entry.Descriptor.FromDB(record)
		if decodeErr != nil {
			return nil, decodeErr
		}

		if dataDriven, isDataDriven := viewModel.(widget.DataDriven); isDataDriven {
			dataDriven.SetValueState(pipeline.resolveValue(dataDriven.Source(), resolvedData))
		}

		viewModels = append(viewModels, viewModel)
	}
	return viewModels, nil
}

func (pipeline *Pipeline) resolveValue(source widget.DataSource, resolvedData map[string]float64) widget.ValueState {
	switch source.Type {
	case widget.DataSourceTypeDatabase:
		resolved, present := resolvedData[source.DataID]
		if !present {
			return widget.ValueState{}
		}
		return widget.ValueState{Value: resolved, HasData: true}
	case widget.DataSourceTypeCalculation:
		return widget.ValueState{Value: pipeline.evaluateExpression(source, resolvedData), HasData: true}
	default:
		return widget.ValueState{}
	}
}

// evaluateExpression runs the calculation through the preprocessor and the
// evaluator. A broken expression renders as zero, never crashes the dashboard.
func (pipeline *Pipeline) evaluateExpression(source widget.DataSource, resolvedData map[string]float64) float64 {
	processedExpression := latex.Normalize(source.Expression)

	scope := make(map[string]any, len(physicalConstants)+len(resolvedData)+len(source.DataIDs)+1)
	for name, constant := range physicalConstants {
		scope[name] = constant
	}
	for dataID, resolved := range resolvedData {
		scope[dataID] = resolved
	}
	for _, dataID := range source.DataIDs {
		if _, present := scope[dataID]; present {
			continue
		}
		// A listed data id without a resolved value evaluates as zero; the
		// warning makes the gap visible instead of fabricating a number.
		pipeline.logger.Warn(logEventMissingDataID, zap.String(logFieldDataID, dataID))
		scope[dataID] = float64(0)
	}
	scope[scopeNameSquareRoot] = math.Sqrt

	result, evalErr := expr.Eval(processedExpression, scope)
	if evalErr != nil {
		pipeline.logger.Warn(logEventExpressionFailed,
			zap.String(logFieldExpression, processedExpression),
			zap.Error(evalErr),
		)
		return 0
	}

	resolved, isNumber := numericResult(result)
	if !isNumber || math.IsNaN(resolved) || math.IsInf(resolved, 0) {
		return 0
	}
	return resolved
}

func numericResult(result any) (float64, bool) {
	switch typedResult := result.(type) {
	case float64:
		return typedResult, true
	case float32:
		return float64(typedResult), true
	case int:
		return float64(typedResult), true
	case int64:
		return float64(typedResult), true
	default:
		return 0, false
	}
}
