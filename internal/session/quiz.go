package session

// QuizState tracks progress through a fixed list of quiz items. An attempt
// is recorded exactly when the cursor advances, so len(attempts) == cursor.
type QuizState struct {
	items    []QuizItem
	cursor   int
	attempts []Attempt
}

// NewQuizState starts a quiz at the first item.
func NewQuizState(items []QuizItem) *QuizState {
	return &QuizState{items: append([]QuizItem(nil), items...)}
}

// Len returns the number of questions in the quiz.
func (q *QuizState) Len() int { return len(q.items) }

// Cursor returns the zero-based index of the current question.
func (q *QuizState) Cursor() int { return q.cursor }

// Complete reports whether every question has been answered.
func (q *QuizState) Complete() bool { return q.cursor == len(q.items) }

// Current returns the question awaiting an answer.
func (q *QuizState) Current() (QuizItem, bool) {
	if q.Complete() {
		return QuizItem{}, false
	}
	return q.items[q.cursor], true
}

// Items returns a copy of the quiz items.
func (q *QuizState) Items() []QuizItem {
	return append([]QuizItem(nil), q.items...)
}

// Attempts returns a copy of the recorded attempts in submission order.
func (q *QuizState) Attempts() []Attempt {
	return append([]Attempt(nil), q.attempts...)
}

// record appends an attempt and advances the cursor by one.
func (q *QuizState) record(a Attempt) {
	q.attempts = append(q.attempts, a)
	q.cursor++
}
