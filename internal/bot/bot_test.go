package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/game"
)

// BotTestSuite 机器人测试套件
type BotTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *game.MemoryStore
	bot   *Bot
	alice Sender
}

func newTestBot(store game.PlayerStore, locale string) *Bot {
	catalog := game.NewMemoryCatalog(
		game.Location{ID: 1, Name: "森林", BossName: "灰狼王", BossHP: 30, BossDmg: 5, HPBonus: 20, DmgBonus: 5},
		game.Location{ID: 2, Name: "沼泽", BossName: "泥沼巨蛙", BossHP: 60, BossDmg: 10, HPBonus: 25, DmgBonus: 5},
	)
	renderer, err := NewRenderer(locale, "!")
	if err != nil {
		panic(err)
	}
	return New(game.NewGameService(store, catalog, game.DefaultSettings()), renderer, "!")
}

func (suite *BotTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = game.NewMemoryStore()
	suite.bot = newTestBot(suite.store, "en")
	suite.alice = Sender{PlayerID: "1001", Mention: "@alice"}
}

func (suite *BotTestSuite) say(text string) Reply {
	return suite.bot.Handle(suite.ctx, suite.alice, text)
}

func (suite *BotTestSuite) TestStartShowsWelcomeAndStatus() {
	reply := suite.say("!start")
	suite.Equal(string(game.OutcomeCreated), reply.Kind)
	suite.Contains(reply.Text, "Welcome to the dungeon")
	suite.Contains(reply.Text, "HP: 100/100")
	suite.Contains(reply.Text, "On the road to the village")
	suite.IsType(&game.StartResult{}, reply.Result)

	again := suite.say("!start")
	suite.Equal(string(game.OutcomeAlreadyStarted), again.Kind)
	suite.Contains(again.Text, "@alice you are already in the game")
}

func (suite *BotTestSuite) TestCommandsBeforeStart() {
	for _, text := range []string{"!status", "!map", "!go 1", "!go", "!attack"} {
		reply := suite.say(text)
		suite.Equal(string(game.OutcomeNotStarted), reply.Kind, text)
		suite.Contains(reply.Text, "!start", text)
	}
}

func (suite *BotTestSuite) TestGoWithoutArgument() {
	suite.say("!start")
	reply := suite.say("!go")
	suite.Equal(KindUsage, reply.Kind)
	suite.Contains(reply.Text, "!go <id or name>")
}

func (suite *BotTestSuite) TestPlayThrough() {
	suite.say("!start")

	entered := suite.say("!go 森林")
	suite.Equal(string(game.OutcomeEntered), entered.Kind)

	suite.Equal(string(game.OutcomeOngoing), suite.say("!attack").Kind)
	defeated := suite.say("!attack")
	suite.Equal(string(game.OutcomeBossDefeated), defeated.Kind)
	suite.Contains(defeated.Text, "max HP: 120 (+20)")

	suite.Equal(string(game.OutcomeAlreadyDefeated), suite.say("!attack").Kind)
	suite.Equal(string(game.OutcomeAlreadyThere), suite.say("!go 1").Kind)

	suite.say("!go 2")
	suite.Equal(string(game.OutcomeAlreadyPassed), suite.say("!go 森林").Kind)

	m := suite.say("!map")
	suite.Equal(string(game.OutcomeMap), m.Kind)
	suite.Contains(m.Text, "1. 森林 [passed]")
	suite.Contains(m.Text, "2. 沼泽 [current location]")

	var last Reply
	for i := 0; i < 10; i++ {
		last = suite.say("!attack")
		if last.Kind != string(game.OutcomeOngoing) {
			break
		}
	}
	suite.Equal(string(game.OutcomeBossDefeated), last.Kind)
	suite.Contains(last.Text, "won the game")
	suite.Equal(0, suite.store.Len())
}

func (suite *BotTestSuite) TestHelpAndInvalid() {
	help := suite.say("!help")
	suite.Equal(KindHelp, help.Kind)
	suite.True(strings.Count(help.Text, "!") >= 6)

	invalid := suite.say("!dance")
	suite.Equal(KindInvalidCommand, invalid.Kind)
	suite.Contains(invalid.Text, "!help")

	suite.Equal(KindInvalidCommand, suite.say("hello").Kind)
}

func (suite *BotTestSuite) TestMentionFallsBackToPlayerID() {
	reply := suite.bot.Handle(suite.ctx, Sender{PlayerID: "2002"}, "!status")
	suite.Contains(reply.Text, "2002")
}

func TestBotSuite(t *testing.T) {
	suite.Run(t, new(BotTestSuite))
}

// brokenStore 始终不可用的存储
type brokenStore struct{}

func (brokenStore) Load(ctx context.Context, id string) (*game.PlayerState, bool, error) {
	return nil, false, apperrors.Wrap(errors.New("connection refused"), apperrors.ErrDatabaseConnect)
}

func (brokenStore) Save(ctx context.Context, p *game.PlayerState) error {
	return apperrors.Wrap(errors.New("connection refused"), apperrors.ErrDatabaseConnect)
}

func (brokenStore) Delete(ctx context.Context, id string) error {
	return apperrors.Wrap(errors.New("connection refused"), apperrors.ErrDatabaseConnect)
}

func TestBot_StoreFailureReply(t *testing.T) {
	b := newTestBot(brokenStore{}, "zh-Hans")
	for _, text := range []string{"!start", "!status", "!map", "!go 1", "!attack"} {
		reply := b.Handle(context.Background(), Sender{PlayerID: "1", Mention: "@x"}, text)
		if reply.Kind != KindError {
			t.Fatalf("%s: 期望 error 回复, 实际 %s", text, reply.Kind)
		}
		if !strings.Contains(reply.Text, "稍后再试") {
			t.Fatalf("%s: 回复内容不正确: %s", text, reply.Text)
		}
	}

	// help 不依赖存储
	if reply := b.Handle(context.Background(), Sender{PlayerID: "1"}, "!help"); reply.Kind != KindHelp {
		t.Fatalf("help: %s", reply.Kind)
	}
}
