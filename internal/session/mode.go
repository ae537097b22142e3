package session

// Mode names the interaction a chat is in once a document is loaded.
type Mode int

const (
	ModeNone Mode = iota
	ModeAsk
	ModeChallenge
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeAsk:
		return "ask"
	case ModeChallenge:
		return "challenge"
	default:
		return "unknown"
	}
}

// Interaction is the per-chat mode. Only the challenge variant carries
// data, so a quiz cannot exist outside challenge mode.
type Interaction interface {
	Mode() Mode
}

type noMode struct{}

func (noMode) Mode() Mode { return ModeNone }

type askMode struct{}

func (askMode) Mode() Mode { return ModeAsk }

type challengeMode struct {
	quiz *QuizState
}

func (challengeMode) Mode() Mode { return ModeChallenge }
