package ui

type UI interface {
	UpdateStatus(status string)
	UpdateStage(done int)
	Log(msg string)
}

type SilentUI struct{}

func (s SilentUI) UpdateStatus(status string) {}
func (s SilentUI) UpdateStage(done int)       {}
func (s SilentUI) Log(msg string)             {}
