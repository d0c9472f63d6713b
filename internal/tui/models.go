package tui

type View int

const (
	ViewResults View = iota
	ViewDetail
	ViewRecall
)

func (v View) String() string {
	switch v {
	case ViewResults:
		return "results"
	case ViewDetail:
		return "detail"
	case ViewRecall:
		return "recall"
	default:
		return "unknown"
	}
}
