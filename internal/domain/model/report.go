package model

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDryRun  = "dry-run"
)

type StepReport struct {
	Step       string `json:"step"`
	OK         bool   `json:"ok"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

type ResultInfo struct {
	Action    string `json:"action"`
	ProductID string `json:"productId,omitempty"`
}

type UpsertReport struct {
	OK     bool         `json:"ok"`
	TimeMS int64        `json:"time_ms"`
	Steps  []StepReport `json:"steps"`
	Result *ResultInfo  `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

func (r *UpsertReport) AddStep(step string, ok bool, durationMS int64, err error) {
	s := StepReport{Step: step, OK: ok, DurationMS: durationMS}
	if err != nil {
		s.Error = err.Error()
	}
	r.Steps = append(r.Steps, s)
}
