package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"chat-relay/errors"
)

var validate = validator.New()

// Config defines the server-side environment variables.
type Config struct {
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=50051" validate:"gt=0,lte=65535"`
	MailboxCapacity int           `env:"MAILBOX_CAPACITY,default=128" validate:"gt=0"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=5s" validate:"gt=0"`
	ReportInterval  time.Duration `env:"REPORT_INTERVAL,default=30s" validate:"gt=0"`

	// Mailboxes filled beyond this percentage get flagged by the watcher.
	LowCapacityThreshold int `env:"LOW_CAPACITY_THRESHOLD,default=80" validate:"gt=0,lte=100"`

	// Comma separated dictionary, moderation stays off when empty.
	ModerationWords           string `env:"MODERATION_WORDS"`
	ModerationCharReplacement string `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
}

// Validate rejects a configuration the engine cannot run with.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CensoredWords splits MODERATION_WORDS into its entries, dropping
// blanks so a trailing comma does not poison the dictionary.
func (c Config) CensoredWords() []string {
	return lo.FilterMap(strings.Split(c.ModerationWords, ","), func(word string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(word)
		return trimmed, trimmed != ""
	})
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
