package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/docchat/internal/assistant"
	"github.com/abhisek/docchat/internal/extract"
	"github.com/abhisek/docchat/internal/store"
)

// Options configures a Service. The repos are optional; without them
// nothing is persisted.
type Options struct {
	MaxUploadMB int
	Documents   store.DocumentRepo
	History     store.HistoryRepo
	Logger      *zap.Logger
}

// Service drives the chat state machine for one interactive user. Every
// action holds the service lock until it completes, gateway calls included.
type Service struct {
	mu      sync.Mutex
	repo    *Repository
	gateway assistant.Gateway
	docs    store.DocumentRepo
	history store.HistoryRepo
	maxMB   int
	log     *zap.Logger
}

// NewService creates a Service over repo.
func NewService(repo *Repository, gateway assistant.Gateway, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		gateway: gateway,
		docs:    opts.Documents,
		history: opts.History,
		maxMB:   opts.MaxUploadMB,
		log:     log.Named("session"),
	}
}

// NewChat creates a chat in the NoDocument state and makes it active.
func (s *Service) NewChat() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newChatLocked().Snapshot()
}

func (s *Service) newChatLocked() *ChatSession {
	c := s.repo.Create("")
	_ = s.repo.SetActive(c.ID)
	s.log.Debug("chat created", zap.String("chat_id", c.ID), zap.String("name", c.Name))
	return c
}

// EnsureActive returns the active chat, creating one when none exists.
func (s *Service) EnsureActive() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.repo.Active(); ok {
		return c.Snapshot()
	}
	return s.newChatLocked().Snapshot()
}

// Chats lists every chat in creation order.
func (s *Service) Chats() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats := s.repo.List()
	out := make([]Snapshot, len(chats))
	for i, c := range chats {
		out[i] = c.Snapshot()
	}
	return out
}

// ActiveID returns the id of the active chat, or "" when none is active.
func (s *Service) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.repo.Active(); ok {
		return c.ID
	}
	return ""
}

// Get returns a snapshot of chat id.
func (s *Service) Get(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.chat(id)
	if err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// Switch makes id the active chat without touching any chat's data.
func (s *Service) Switch(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.chat(id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := s.repo.SetActive(id); err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// Upload extracts and summarizes a document and attaches it to chat id.
// The chat is renamed to filename and receives two assistant messages.
// Extraction errors leave the chat unchanged.
func (s *Service) Upload(ctx context.Context, id, filename string, data []byte) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.chat(id)
	if err != nil {
		return Snapshot{}, err
	}
	if c.document != nil {
		return Snapshot{}, ErrDocumentLoaded
	}

	if err := extract.ValidateSize(int64(len(data)), s.maxMB); err != nil {
		return Snapshot{}, err
	}
	text, err := extract.Extract(data, extract.ExtensionOf(filename))
	if err != nil {
		return Snapshot{}, err
	}

	summary := s.gateway.Summarize(ctx, text)

	doc := &Document{Name: filename, Text: text, Summary: summary}
	doc.StoreID = s.persistDocument(ctx, doc)

	c.document = doc
	c.Name = filename
	c.appendMessage(RoleAssistant, fmt.Sprintf("I have finished reading `%s`.", filename))
	c.appendMessage(RoleAssistant, "**Here is a short summary:**\n\n"+summary)

	s.log.Info("document loaded",
		zap.String("chat_id", c.ID),
		zap.String("filename", filename),
		zap.Int("chars", len(text)),
		zap.Int("store_id", doc.StoreID))
	return c.Snapshot(), nil
}

// EnterAsk switches a freshly loaded chat into question answering.
func (s *Service) EnterAsk(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.modeSelectable(id)
	if err != nil {
		return Snapshot{}, err
	}
	c.interaction = askMode{}
	return c.Snapshot(), nil
}

// EnterChallenge generates a quiz and switches into challenge mode. An
// empty quiz leaves the mode unset and returns ErrQuizGenerationFailed.
func (s *Service) EnterChallenge(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.modeSelectable(id)
	if err != nil {
		return Snapshot{}, err
	}

	items := s.gateway.GenerateQuiz(ctx, c.document.Text)
	if len(items) == 0 {
		s.log.Warn("quiz generation returned no questions", zap.String("chat_id", c.ID))
		return c.Snapshot(), ErrQuizGenerationFailed
	}

	c.interaction = challengeMode{quiz: NewQuizState(items)}
	return c.Snapshot(), nil
}

// Ask answers a question about the chat's document and records both turns.
func (s *Service) Ask(ctx context.Context, id, question string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.chat(id)
	if err != nil {
		return Snapshot{}, err
	}
	if c.Mode() != ModeAsk {
		return Snapshot{}, fmt.Errorf("%w: ask requires %s mode, chat is in %s", ErrWrongMode, ModeAsk, c.Mode())
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Snapshot{}, ErrEmptyQuestion
	}

	c.appendMessage(RoleUser, question)
	answer := s.gateway.AnswerQuestion(ctx, c.document.Text, question)
	c.appendMessage(RoleAssistant, answer)

	s.persistQAPair(ctx, c, question, answer)
	return c.Snapshot(), nil
}

// SubmitAnswer evaluates an answer to the current quiz question and
// advances the quiz by one. Blank answers and finished quizzes are rejected
// without any state change.
func (s *Service) SubmitAnswer(ctx context.Context, id, answer string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.chat(id)
	if err != nil {
		return Snapshot{}, err
	}
	quiz, ok := c.Quiz()
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: answers require %s mode, chat is in %s", ErrWrongMode, ModeChallenge, c.Mode())
	}
	item, ok := quiz.Current()
	if !ok {
		return c.Snapshot(), ErrQuizComplete
	}
	if strings.TrimSpace(answer) == "" {
		return c.Snapshot(), ErrEmptyAnswer
	}

	feedback := s.gateway.EvaluateAnswer(ctx, c.document.Text, item.Question, answer, item.Answer)
	quiz.record(Attempt{Question: item.Question, UserAnswer: answer, Feedback: feedback})

	if quiz.Complete() {
		s.persistQuiz(ctx, c, quiz)
	}
	return c.Snapshot(), nil
}

func (s *Service) chat(id string) (*ChatSession, error) {
	c, ok := s.repo.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return c, nil
}

func (s *Service) modeSelectable(id string) (*ChatSession, error) {
	c, err := s.chat(id)
	if err != nil {
		return nil, err
	}
	if c.document == nil {
		return nil, ErrNoDocument
	}
	if c.Mode() != ModeNone {
		return nil, ErrModeAlreadySet
	}
	return c, nil
}

func (s *Service) persistDocument(ctx context.Context, doc *Document) int {
	if s.docs == nil {
		return 0
	}
	storeID, err := s.docs.Save(ctx, store.DocumentInput{
		Filename: doc.Name,
		Content:  doc.Text,
		Summary:  doc.Summary,
	})
	if err != nil {
		s.log.Error("persist document", zap.String("filename", doc.Name), zap.Error(err))
		return 0
	}
	return storeID
}

func (s *Service) persistQAPair(ctx context.Context, c *ChatSession, question, answer string) {
	if s.history == nil || c.document.StoreID == 0 {
		return
	}
	_, err := s.history.SaveQASession(ctx, c.document.StoreID, c.ID, []store.QAPair{
		{Question: question, Answer: answer},
	})
	if err != nil {
		s.log.Error("persist qa pair", zap.String("chat_id", c.ID), zap.Error(err))
	}
}

func (s *Service) persistQuiz(ctx context.Context, c *ChatSession, quiz *QuizState) {
	if s.history == nil || c.document.StoreID == 0 {
		return
	}

	items := quiz.Items()
	attempts := quiz.Attempts()
	answers := make([]store.QuizAnswer, len(attempts))
	for i, a := range attempts {
		answers[i] = store.QuizAnswer{
			Question:      a.Question,
			UserAnswer:    a.UserAnswer,
			CorrectAnswer: items[i].Answer,
			Feedback:      a.Feedback,
		}
	}

	_, err := s.history.SaveQuizSession(ctx, c.document.StoreID, c.ID, store.QuizRecord{
		TotalQuestions: quiz.Len(),
		Completed:      quiz.Complete(),
		Answers:        answers,
	})
	if err != nil {
		s.log.Error("persist quiz", zap.String("chat_id", c.ID), zap.Error(err))
	}
}

func defaultChatName(n int) string {
	return fmt.Sprintf("Chat %d", n)
}
