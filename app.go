package main

import (
	"log"

	"github.com/google/uuid"

	"github.com/chazu/cheesemaker/pkg/config"
	"github.com/chazu/cheesemaker/pkg/engine"
	"github.com/chazu/cheesemaker/pkg/scene"
	"github.com/chazu/cheesemaker/pkg/tessellate"
)

// colorPalette assigns display colors to surfaces in run order.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App evaluates crust scripts and extracts their surfaces.
type App struct {
	engine *engine.Engine
	config *config.Config
	runs   int
}

// MeshData is the JSON-serializable mesh format written by the CLI.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable finding. Line and Col are zero for
// findings that do not come from the script parser.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// StatsData mirrors crust.Stats for JSON output.
type StatsData struct {
	Candidates   int   `json:"candidates"`
	EdgeRejected int   `json:"edgeRejected"`
	Degenerate   int   `json:"degenerate"`
	Accepted     int   `json:"accepted"`
	ElapsedMS    int64 `json:"elapsedMs"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	RunID    string          `json:"runId"`
	Scene    string          `json:"scene"`
	Method   string          `json:"method"`
	Points   int             `json:"points"`
	Cells    int             `json:"cells"`
	Meshes   []MeshData      `json:"meshes"`
	Stats    StatsData       `json:"stats"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// OK reports whether the evaluation produced no errors.
func (r EvalResult) OK() bool {
	return len(r.Errors) == 0
}

// NewApp creates an App with default tuning.
func NewApp() *App {
	return NewAppWithConfig(config.Empty())
}

// NewAppWithConfig creates an App whose runs use cfg. Scene settings still
// override cfg key by key.
func NewAppWithConfig(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Empty()
	}
	return &App{
		engine: engine.NewEngine().WithTimeout(cfg.GetEvalTimeout()),
		config: cfg,
	}
}

// Evaluate takes script source and returns the extracted surface and
// findings.
func (a *App) Evaluate(source string) EvalResult {
	result, _ := a.evaluate(source)
	return result
}

// evaluate also returns the tessellation result so callers can export the
// raw surface.
func (a *App) evaluate(source string) (EvalResult, *tessellate.Result) {
	result := EvalResult{
		RunID:    uuid.NewString(),
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a scene.
	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("run %s: evaluate fatal error: %v", result.RunID, err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, nil
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result, nil
	}

	result.Scene = sc.Name
	result.Points = len(sc.Points)
	result.Cells = len(sc.Cells)

	// An empty script declares nothing to extract.
	if len(sc.Points) == 0 && len(sc.Cells) == 0 {
		return result, nil
	}

	// Step 2: Extract the crust.
	res, err := tessellate.Run(sc, a.config)
	result.Warnings = append(result.Warnings, findings(res.Validation.Warnings)...)
	if err != nil {
		log.Printf("run %s: %v", result.RunID, err)
		if !res.Validation.OK() {
			result.Errors = append(result.Errors, findings(res.Validation.Errors)...)
		} else {
			result.Errors = append(result.Errors, EvalErrorData{
				Message: "tessellation failed: " + err.Error(),
			})
		}
		return result, &res
	}

	result.Method = string(res.Method)
	result.Stats = StatsData{
		Candidates:   res.Stats.Candidates,
		EdgeRejected: res.Stats.EdgeRejected,
		Degenerate:   res.Stats.Degenerate,
		Accepted:     res.Stats.Accepted,
		ElapsedMS:    res.Elapsed.Milliseconds(),
	}

	// Step 3: Convert the surface to the output mesh format.
	if !res.Surface.IsEmpty() {
		name := sc.Name
		if name == "" {
			name = "surface"
		}
		m := res.Mesh(name)
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[a.runs%len(colorPalette)],
		})
	}
	a.runs++

	return result, &res
}

func findings(errs []scene.ValidationError) []EvalErrorData {
	out := make([]EvalErrorData, 0, len(errs))
	for _, e := range errs {
		out = append(out, EvalErrorData{Message: e.Error()})
	}
	return out
}
