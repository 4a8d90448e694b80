package capture

// stageOrder is the fixed 6-stage progression used for progress reporting.
// COMPLETE sits outside it as the terminal state.
var stageOrder = []Stage{
	StageGreeting,
	StageAskName,
	StageAskEmail,
	StageAskPhone,
	StageAskPurpose,
	StageSummary,
}

// NextStage maps a partially-filled lead to the first stage that still needs
// an answer, in strict field order. It is pure and idempotent: it computes
// forward from the record alone and never consults a "current" stage.
func NextStage(lead LeadRecord) Stage {
	switch {
	case lead.Name == "":
		return StageAskName
	case lead.Email == "":
		return StageAskEmail
	case lead.Phone == "":
		return StageAskPhone
	case lead.Purpose == "":
		return StageAskPurpose
	default:
		return StageSummary
	}
}

// Progress returns the stage's position in the fixed sequence as a fraction
// in (0, 1]. COMPLETE reports 1.
func Progress(stage Stage) float64 {
	if stage == StageComplete {
		return 1
	}
	for i, s := range stageOrder {
		if s == stage {
			return float64(i+1) / float64(len(stageOrder))
		}
	}
	return 0
}

// StepLabel names the stage for the widget's progress header.
func StepLabel(stage Stage) string {
	switch stage {
	case StageGreeting:
		return "Getting Started"
	case StageAskName:
		return "Your Name"
	case StageAskEmail:
		return "Your Email"
	case StageAskPhone:
		return "Your Phone"
	case StageAskPurpose:
		return "Your Project"
	case StageSummary:
		return "Confirmation"
	case StageComplete:
		return "Complete"
	default:
		return string(stage)
	}
}
