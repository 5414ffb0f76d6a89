package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/opennotes/opennotes/core"
	"github.com/opennotes/opennotes/core/content"
	"github.com/opennotes/opennotes/core/subscription"
)

// NewConfig returns a self-contained test configuration; no env files read.
func NewConfig(adminEmails ...string) *core.Config {
	return &core.Config{
		Env:              "test",
		TestMode:         true,
		AppName:          "OpenNotes",
		SecretKey:        "s3cr3t-t3st-k3y",
		AdminEmails:      adminEmails,
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromName:  "OpenNotes",
		DefaultFromEmail: "noreply@opennotes.test",
		Server: core.ServerConfig{
			Host:               "localhost",
			Port:               "8000",
			JWTExpirationDelta: 10 * time.Minute,
			ShutdownTimeout:    5 * time.Second,
		},
	}
}

// NewValidator returns a validator wired with the app's custom tags and an
// english translator.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate, translator
}

// Logger is a plain stdout core.Logger; Fatal does not exit.
type Logger struct {
	std *log.Logger
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)}
}

func (l *Logger) log(level, msg string, args []interface{}) {
	l.std.Println(level + ": " + msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l *Logger) Enable(bool)                           {}
func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

func CreateSubject(
	t *testing.T,
	repo content.SubjectRepository,
	title, field string,
	approved bool,
	createdAt ...time.Time,
) content.Subject {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	sub, err := repo.CreateSubject(context.Background(), content.Subject{
		ID:         uuid.New().String(),
		Title:      title,
		Field:      field,
		Icon:       "📚",
		IsApproved: approved,
		CreatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateSubject(): %v", err)
	}
	return sub
}

func CreateNote(
	t *testing.T,
	repo content.NoteRepository,
	title, subjectTitle, uploaderID, uploaderEmail string,
	approved bool,
	createdAt ...time.Time,
) content.Note {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	note, err := repo.CreateNote(context.Background(), content.Note{
		ID:            uuid.New().String(),
		Title:         title,
		Subject:       subjectTitle,
		Description:   fmt.Sprintf("Notes on %s", title),
		UploaderID:    uploaderID,
		UploaderEmail: uploaderEmail,
		IsApproved:    approved,
		CreatedAt:     tstamp,
	})
	if err != nil {
		t.Fatalf("CreateNote(): %v", err)
	}
	return note
}

func CreateSubscription(
	t *testing.T,
	repo subscription.Repository,
	userID string,
	subj content.Subject,
) subscription.Subscription {
	t.Helper()

	sub, err := repo.CreateSubscription(context.Background(), subscription.Subscription{
		ID:           uuid.New().String(),
		UserID:       userID,
		SubjectID:    subj.ID,
		SubjectTitle: subj.Title,
		SubjectDesc:  subj.Description,
		SubjectIcon:  subj.Icon,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSubscription(): %v", err)
	}
	return sub
}
