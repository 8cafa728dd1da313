package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ExtractPagesActivity)
	w.RegisterActivity(a.ClassifyPagesActivity)
	w.RegisterActivity(a.ExtractDiagramsActivity)
	w.RegisterActivity(a.SynthesizeActivity)
	w.RegisterActivity(a.PersistQuestionSetActivity)
	w.RegisterActivity(a.WriteSetArtifactActivity)
}
