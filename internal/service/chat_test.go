package service

import (
	"context"
	"testing"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/testutil"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageStoresExchange(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	course, _ := testutil.CreateCourse(t, f.db, "Spyglass", 18)
	round := f.startRound(t, user.ID, course.ID)

	session, err := f.chat.CreateSession(user.ID, CreateSessionInput{RoundID: &round.ID})
	require.NoError(t, err)
	assert.Equal(t, "Spyglass", session.Name)
	require.NotNil(t, session.CourseID)
	assert.Equal(t, course.ID, *session.CourseID)

	exchange, err := f.chat.SendMessage(context.Background(), user.ID, session.ID, "  What club from 150?  ")
	require.NoError(t, err)
	assert.Equal(t, "What club from 150?", exchange.Message.Content)
	assert.Equal(t, model.ChatRoleAssistant, exchange.Reply.Role)
	assert.Equal(t, 42, exchange.Reply.TokensUsed)

	require.Len(t, f.completer.prompts, 1)
	prompt := f.completer.prompts[0]
	require.Len(t, prompt, 2)
	assert.Equal(t, model.ChatRoleSystem, prompt[0].Role)
	assert.Contains(t, prompt[0].Content, "Spyglass")
	assert.Contains(t, prompt[0].Content, "Current hole: 1")
	assert.Equal(t, "What club from 150?", prompt[1].Content)

	full, err := f.chat.Session(user.ID, session.ID)
	require.NoError(t, err)
	require.Len(t, full.Messages, 2)
	assert.Equal(t, model.ChatRoleUser, full.Messages[0].Role)
	assert.Equal(t, model.ChatRoleAssistant, full.Messages[1].Role)
	assert.Equal(t, 2, full.TotalMessages)
}

func TestSendMessageCompletionFailureKeepsQuestion(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	session, err := f.chat.CreateSession(user.ID, CreateSessionInput{})
	require.NoError(t, err)
	assert.Equal(t, "Caddie chat", session.Name)

	f.completer.err = ErrAIQuotaExceeded
	_, err = f.chat.SendMessage(context.Background(), user.ID, session.ID, "Hello")
	assert.ErrorIs(t, err, ErrAIQuotaExceeded)

	full, err := f.chat.Session(user.ID, session.ID)
	require.NoError(t, err)
	require.Len(t, full.Messages, 1)
	assert.Equal(t, "Hello", full.Messages[0].Content)
}

func TestSendMessageValidationAndAccess(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "owner@example.com")
	other := testutil.CreateUser(t, f.db, "other@example.com")
	session, err := f.chat.CreateSession(owner.ID, CreateSessionInput{Name: "Range session"})
	require.NoError(t, err)

	_, err = f.chat.SendMessage(context.Background(), owner.ID, session.ID, "   ")
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.chat.SendMessage(context.Background(), other.ID, session.ID, "Hi")
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.chat.DeleteSession(other.ID, session.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.chat.DeleteSession(owner.ID, session.ID))
	_, err = f.chat.Session(owner.ID, session.ID)
	assert.ErrorIs(t, err, repository.ErrChatSessionNotFound)
}

func TestSendMessageRateLimited(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	f.chat.limiter = &denyAfter{n: 1}

	session, err := f.chat.CreateSession(user.ID, CreateSessionInput{})
	require.NoError(t, err)

	_, err = f.chat.SendMessage(context.Background(), user.ID, session.ID, "First")
	require.NoError(t, err)

	_, err = f.chat.SendMessage(context.Background(), user.ID, session.ID, "Second")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSendMessageWithoutCompleter(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "golfer@example.com")
	f.chat.completer = nil

	session, err := f.chat.CreateSession(user.ID, CreateSessionInput{})
	require.NoError(t, err)

	_, err = f.chat.SendMessage(context.Background(), user.ID, session.ID, "Anyone there?")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestCreateSessionForOtherUsersRound(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "owner@example.com")
	other := testutil.CreateUser(t, f.db, "other@example.com")
	course, _ := testutil.CreateCourse(t, f.db, "Links", 9)
	round := f.startRound(t, owner.ID, course.ID)

	_, err := f.chat.CreateSession(other.ID, CreateSessionInput{RoundID: &round.ID})
	assert.ErrorIs(t, err, ErrForbidden)
}
