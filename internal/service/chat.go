package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/google/uuid"
)

const maxSessionNameLength = 100

// Limiter decides whether the key may perform another request in the current window.
type Limiter interface {
	Allow(key string) bool
}

type CreateSessionInput struct {
	Name     string  `json:"name"`
	RoundID  *string `json:"round_id"`
	CourseID *string `json:"course_id"`
}

// ChatExchange is the stored question and the caddie's answer.
type ChatExchange struct {
	Message *model.ChatMessage `json:"message"`
	Reply   *model.ChatMessage `json:"reply"`
}

type ChatService struct {
	chatRepository   repository.ChatRepository
	userRepository   repository.UserRepository
	courseRepository repository.CourseRepository
	roundRepository  repository.RoundRepository
	scoreRepository  repository.HoleScoreRepository
	completer        Completer
	limiter          Limiter
	historySize      int
}

func NewChatService(
	chatRepository repository.ChatRepository,
	userRepository repository.UserRepository,
	courseRepository repository.CourseRepository,
	roundRepository repository.RoundRepository,
	scoreRepository repository.HoleScoreRepository,
	completer Completer,
	limiter Limiter,
	historySize int,
) *ChatService {
	return &ChatService{
		chatRepository:   chatRepository,
		userRepository:   userRepository,
		courseRepository: courseRepository,
		roundRepository:  roundRepository,
		scoreRepository:  scoreRepository,
		completer:        completer,
		limiter:          limiter,
		historySize:      historySize,
	}
}

func (s *ChatService) CreateSession(userID string, in CreateSessionInput) (*model.ChatSession, error) {
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) > maxSessionNameLength {
		return nil, invalid("name", fmt.Errorf("name is too long (max %d characters)", maxSessionNameLength))
	}

	roundID := nonEmpty(in.RoundID)
	courseID := nonEmpty(in.CourseID)

	if roundID != nil {
		round, err := s.roundRepository.ByID(*roundID)
		if err != nil {
			return nil, err
		}
		if round.UserID != userID {
			return nil, ErrForbidden
		}
		if courseID == nil {
			courseID = &round.CourseID
		}
	}

	if courseID != nil {
		course, err := s.courseRepository.ByID(*courseID)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = course.Name
		}
	}
	if name == "" {
		name = "Caddie chat"
	}

	now := time.Now().UTC()
	session := &model.ChatSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		RoundID:   roundID,
		CourseID:  courseID,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.chatRepository.CreateSession(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	return session, nil
}

func (s *ChatService) Sessions(userID string) ([]*model.ChatSession, error) {
	return s.chatRepository.Sessions(userID)
}

// Session returns the session with its full message history.
func (s *ChatService) Session(userID, sessionID string) (*model.ChatSession, error) {
	session, err := s.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session.Messages, err = s.chatRepository.RecentMessages(session.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	return session, nil
}

func (s *ChatService) DeleteSession(userID, sessionID string) error {
	session, err := s.owned(userID, sessionID)
	if err != nil {
		return err
	}

	return s.chatRepository.DeleteSession(session.ID)
}

// SendMessage stores the golfer's message, asks the caddie and stores the reply.
// The golfer's message is kept even when the completion fails.
func (s *ChatService) SendMessage(ctx context.Context, userID, sessionID, text string) (*ChatExchange, error) {
	if s.limiter != nil && !s.limiter.Allow(userID) {
		slog.Warn("chat rate limit exceeded", "user_id", userID)
		return nil, ErrRateLimited
	}

	err := validation.ValidateChatMessage(text)
	if err != nil {
		return nil, invalid("message", err)
	}

	session, err := s.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if s.completer == nil {
		return nil, ErrAIUnavailable
	}

	message := &model.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		UserID:    userID,
		Role:      model.ChatRoleUser,
		Content:   strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	err = s.chatRepository.AddMessage(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	history, err := s.chatRepository.RecentMessages(session.ID, s.historySize)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	prompt := []CompletionMessage{{Role: model.ChatRoleSystem, Content: s.systemPrompt(userID, session)}}
	for _, m := range history {
		prompt = append(prompt, CompletionMessage{Role: m.Role, Content: m.Content})
	}

	completion, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		if !errors.Is(err, ErrAIRateLimited) && !errors.Is(err, ErrAIQuotaExceeded) && !errors.Is(err, ErrAIUnavailable) {
			slog.Error("chat completion failed", "error", err, "session_id", session.ID)
			err = ErrAIUnavailable
		}
		return nil, err
	}

	reply := &model.ChatMessage{
		ID:         uuid.New().String(),
		SessionID:  session.ID,
		UserID:     userID,
		Role:       model.ChatRoleAssistant,
		Content:    completion.Content,
		TokensUsed: completion.TokensUsed,
		CreatedAt:  time.Now().UTC(),
	}
	if !reply.CreatedAt.After(message.CreatedAt) {
		reply.CreatedAt = message.CreatedAt.Add(time.Millisecond)
	}
	err = s.chatRepository.AddMessage(ctx, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}

	slog.Info("chat reply sent", "session_id", session.ID, "user_id", userID, "tokens", completion.TokensUsed)
	return &ChatExchange{Message: message, Reply: reply}, nil
}

func (s *ChatService) owned(userID, sessionID string) (*model.ChatSession, error) {
	session, err := s.chatRepository.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

// systemPrompt describes the golfer and, when known, the course and hole they are on.
// Lookups that fail are left out of the prompt.
func (s *ChatService) systemPrompt(userID string, session *model.ChatSession) string {
	var b strings.Builder
	b.WriteString("You are CaddieAI, a friendly and knowledgeable golf caddie. ")
	b.WriteString("Give short, practical advice on club selection, strategy, course management and the rules of golf.\n")

	user, err := s.userRepository.ByID(userID)
	if err == nil {
		fmt.Fprintf(&b, "\nGolfer: %s.", user.DisplayName())
		if user.Handicap != nil {
			fmt.Fprintf(&b, " Handicap %.1f.", *user.Handicap)
		}
		if user.SkillLevel != "" {
			fmt.Fprintf(&b, " Skill level %s.", user.SkillLevel)
		}
		b.WriteString("\n")
	}

	var round *model.Round
	if session.RoundID != nil {
		round, _ = s.roundRepository.ByID(*session.RoundID)
	} else {
		round, _ = s.roundRepository.Active(userID)
	}

	courseID := session.CourseID
	if courseID == nil && round != nil {
		courseID = &round.CourseID
	}
	if courseID == nil {
		return b.String()
	}

	course, err := s.courseRepository.ByID(*courseID)
	if err != nil {
		return b.String()
	}
	fmt.Fprintf(&b, "\nCourse: %s", course.Name)
	if course.City != "" {
		fmt.Fprintf(&b, ", %s", course.City)
	}
	fmt.Fprintf(&b, ". %d holes, par %d.\n", course.TotalHoles, course.ParTotal)

	if round == nil || !round.IsActive() || round.CourseID != course.ID {
		return b.String()
	}

	hole, err := s.courseRepository.Hole(course.ID, round.CurrentHole)
	if err == nil {
		fmt.Fprintf(&b, "Current hole: %d, par %d, %d yards.", hole.HoleNumber, hole.Par, hole.Yardage)
		if hole.Tips != "" {
			fmt.Fprintf(&b, " Local tip: %s", hole.Tips)
		}
		b.WriteString("\n")
	}

	scores, err := s.scoreRepository.ByRound(round.ID)
	if err == nil && len(scores) > 0 {
		stats := computeRoundStats(round, scores, nil)
		fmt.Fprintf(&b, "Round so far: %d holes, %d strokes (%s).\n", stats.HolesPlayed, stats.TotalScore, formatToPar(stats.ScoreToPar))
	}

	return b.String()
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
