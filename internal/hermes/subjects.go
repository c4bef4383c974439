package hermes

const (
	StreamName   = "EPISCORE_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

var StreamSubjects = []string{"episcore.run.>"}

func SubjectRunStarted(runID string) string   { return "episcore.run." + runID + ".started" }
func SubjectRunCompleted(runID string) string { return "episcore.run." + runID + ".completed" }
func SubjectFileFailed(runID string) string   { return "episcore.run." + runID + ".file_failed" }
