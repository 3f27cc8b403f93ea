package flow

// Screen is the step of the request-capture form currently shown.
// It is a closed set: Main, ProjectType, ProjectDetail and AskFirst.
type Screen interface {
	Name() string
	isScreen()
}

const (
	ScreenMain          = "main"
	ScreenProjectType   = "project-type"
	ScreenProjectDetail = "project-detail"
	ScreenAskFirst      = "ask-first"
)

// Main is the dashboard landing step
type Main struct{}

// ProjectType is the service picker; Selected is empty until a tile is chosen
type ProjectType struct {
	Selected Service
}

// ProjectDetail collects the description and deadline for Service
type ProjectDetail struct {
	Service        Service
	DeadlineDialog bool
}

// AskFirst collects a free-form question
type AskFirst struct{}

func (Main) Name() string          { return ScreenMain }
func (ProjectType) Name() string   { return ScreenProjectType }
func (ProjectDetail) Name() string { return ScreenProjectDetail }
func (AskFirst) Name() string      { return ScreenAskFirst }

func (Main) isScreen()          {}
func (ProjectType) isScreen()   {}
func (ProjectDetail) isScreen() {}
func (AskFirst) isScreen()      {}
