package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/caddieai/caddie/internal/live"
	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/storage"
	"github.com/caddieai/caddie/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []live.Event
}

func (p *recordingPublisher) Publish(_ string, event live.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeCompleter struct {
	reply   string
	err     error
	prompts [][]CompletionMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []CompletionMessage) (*Completion, error) {
	f.prompts = append(f.prompts, messages)
	if f.err != nil {
		return nil, f.err
	}
	return &Completion{Content: f.reply, TokensUsed: 42}, nil
}

type denyAfter struct {
	n     int
	count int
}

func (d *denyAfter) Allow(string) bool {
	d.count++
	return d.count <= d.n
}

type fixture struct {
	db        *sqlx.DB
	events    *recordingPublisher
	store     *storage.MemoryStorage
	completer *fakeCompleter

	auth      *AuthService
	users     *UserService
	courses   *CourseService
	rounds    *RoundService
	scores    *ScoreService
	locations *LocationService
	clubs     *ClubService
	stats     *StatsService
	chat      *ChatService
	devices   *DeviceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := testutil.NewDB(t)
	f := &fixture{
		db:        database,
		events:    &recordingPublisher{},
		store:     storage.NewMemoryStorage(),
		completer: &fakeCompleter{reply: "Take the 7 iron and aim at the middle of the green."},
	}

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	fileRepo := repository.NewFileRepository(database)
	courseRepo := repository.NewCourseRepository(database)
	roundRepo := repository.NewRoundRepository(database)
	scoreRepo := repository.NewHoleScoreRepository(database)
	shotRepo := repository.NewShotRepository(database)
	chatRepo := repository.NewChatRepository(database)
	recRepo := repository.NewClubRecommendationRepository(database)
	deviceRepo := repository.NewDeviceRepository(database)

	emailService := NewEmailService("", "caddie@example.com", "CaddieAI", true)
	fileService := NewFileService(fileRepo, f.store)

	f.auth = NewAuthService(userRepo, tokenRepo, emailService, nil, "test-secret-that-is-long-enough-for-hs256", 15*time.Minute, time.Hour)
	f.users = NewUserService(userRepo, f.auth, fileService, emailService)
	f.courses = NewCourseService(courseRepo)
	f.rounds = NewRoundService(roundRepo, courseRepo, scoreRepo, userRepo, fileService, emailService, f.events)
	f.scores = NewScoreService(f.rounds, roundRepo, courseRepo, scoreRepo, f.events)
	f.locations = NewLocationService(f.rounds, courseRepo, shotRepo, f.events)
	f.clubs = NewClubService(f.rounds, recRepo)
	f.stats = NewStatsService(f.rounds, roundRepo, courseRepo, scoreRepo)
	f.chat = NewChatService(chatRepo, userRepo, courseRepo, roundRepo, scoreRepo, f.completer, nil, 20)
	f.devices = NewDeviceService(deviceRepo)

	return f
}

func (f *fixture) startRound(t *testing.T, userID, courseID string) *model.Round {
	t.Helper()
	round, err := f.rounds.Start(userID, StartRoundInput{CourseID: courseID})
	require.NoError(t, err)
	return round
}

func pngUpload(name string) Upload {
	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	return Upload{Reader: bytes.NewReader(data), OriginalName: name, Size: int64(len(data))}
}

func intp(v int) *int { return &v }

func boolp(v bool) *bool { return &v }
