package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core"
	"github.com/opennotes/opennotes/core/content"
)

// chatFallbackAnswer masks tutor failures; students get an apology, not a 500.
const chatFallbackAnswer = "Sorry, I am having trouble connecting to the brain right now."

type contentApi struct {
	svc      content.ServiceInterface
	validate *validator.Validate
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc content.ServiceInterface, validate *validator.Validate) {
	api := contentApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("", jwt)

	ag.GET("/subjects", api.listSubjects)
	ag.POST("/subjects", api.requestSubject)
	ag.GET("/subjects/:title/notes", api.notesBySubject)

	ag.POST("/notes/upload", api.uploadNote)
	ag.POST("/notes", api.createOnlineNote)
	ag.GET("/notes/mine", api.myNotes)

	// moderation
	ag.PUT("/approve/subjects/:id", api.approveSubject, adminMiddleware())
	ag.PUT("/approve/notes/:id", api.approveNote, adminMiddleware())
	ag.DELETE("/subjects/:id", api.deleteSubject, adminMiddleware())
	ag.DELETE("/notes/:id", api.deleteNote, adminMiddleware())
	ag.GET("/admin/stats", api.adminStats, adminMiddleware())

	ag.POST("/chat", api.chat)
}

// Handlers

func (api *contentApi) listSubjects(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	// show_all is honored for admins only; students always get the approved set
	showAll, _ := strconv.ParseBool(ctx.QueryParam("show_all"))
	includeUnapproved := showAll && usr.IsAdmin()

	subjects, err := api.svc.ListSubjects(ctx.Request().Context(), includeUnapproved)
	if err != nil {
		// degrade to an empty list; a broken store must not blank the portal
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "listing subjects"))
		subjects = nil
	}
	if subjects == nil {
		subjects = []content.Subject{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *contentApi) requestSubject(ctx echo.Context) error {
	var data content.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	subject, err := api.svc.RequestSubject(ctx.Request().Context(), data, usr.ID)
	if err != nil {
		return errors.Wrap(err, "requesting subject")
	}
	return ctx.JSON(http.StatusCreated, subject)
}

func (api *contentApi) notesBySubject(ctx echo.Context) error {
	notes, err := api.svc.NotesBySubject(ctx.Request().Context(), ctx.Param("title"))
	if err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "listing notes by subject"))
		notes = nil
	}
	if notes == nil {
		notes = []content.Note{}
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *contentApi) uploadNote(ctx echo.Context) error {
	data := content.NewNote{
		Title:         ctx.FormValue("title"),
		Subject:       ctx.FormValue("subject"),
		Course:        ctx.FormValue("course"),
		Chapter:       ctx.FormValue("chapter"),
		AcademicLevel: ctx.FormValue("academic_level"),
		Description:   ctx.FormValue("description"),
		YoutubeURL:    ctx.FormValue("youtube_url"),
	}
	if tags := ctx.FormValue("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = core.CleanString(tag); tag != "" {
				data.Tags = append(data.Tags, tag)
			}
		}
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fileHdr, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "this field is required"})
	}
	file, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = file.Close() }()

	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	note, err := api.svc.UploadNote(
		ctx.Request().Context(),
		data,
		fileHdr.Filename,
		fileHdr.Header.Get(echo.HeaderContentType),
		file,
		usr.ID,
		usr.Email,
	)
	if err != nil {
		return errors.Wrap(err, "uploading note")
	}
	return ctx.JSON(http.StatusCreated, note)
}

func (api *contentApi) createOnlineNote(ctx echo.Context) error {
	var data content.NewOnlineNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOnlineNote")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	note, err := api.svc.CreateOnlineNote(ctx.Request().Context(), data, usr.ID, usr.Email)
	if err != nil {
		return errors.Wrap(err, "creating online note")
	}
	return ctx.JSON(http.StatusCreated, note)
}

func (api *contentApi) myNotes(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	notes, err := api.svc.NotesByUploader(ctx.Request().Context(), usr.ID)
	if err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "listing own notes"))
		notes = nil
	}
	if notes == nil {
		notes = []content.Note{}
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *contentApi) approveSubject(ctx echo.Context) error {
	subject, err := api.svc.ApproveSubject(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subject)
}

func (api *contentApi) approveNote(ctx echo.Context) error {
	note, err := api.svc.ApproveNote(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, note)
}

func (api *contentApi) deleteSubject(ctx echo.Context) error {
	if err := api.svc.DeleteSubject(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *contentApi) deleteNote(ctx echo.Context) error {
	if err := api.svc.DeleteNote(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *contentApi) adminStats(ctx echo.Context) error {
	stats, err := api.svc.AdminStats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing admin stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *contentApi) chat(ctx echo.Context) error {
	var data ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	answer, err := api.svc.AskQuestion(ctx.Request().Context(), data.Question, data.Subject)
	if err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "asking tutor"))
		answer = chatFallbackAnswer
	}
	return ctx.JSON(http.StatusOK, ChatResponse{Answer: answer})
}
