package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kundihq/kundi/core/editing"
	"github.com/kundihq/kundi/core/roster"
)

const defaultAuditLimit = 50

type stewardApi struct {
	deps ServerDeps
}

func registerStewardAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := stewardApi{deps: deps}

	// un-authed endpoints
	g.POST("/login", api.login)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.GET("/students", api.studentQuery)
	ag.POST("/students/:id/fix", api.studentFix)
	ag.GET("/pending", api.pendingRetrieve)
	ag.POST("/pending/cancel", api.pendingCancel)
	ag.POST("/undo", api.undo)
	ag.POST("/redo", api.redo)
	ag.GET("/history", api.historySummary)
	ag.GET("/audit", api.auditQuery)
	ag.GET("/duplicates", api.duplicateQuery)
	ag.GET("/gamification", api.gamificationRetrieve)
	ag.GET("/config", api.configRetrieve)
	ag.PUT("/config", api.configUpdate)
}

// Handlers

func (api *stewardApi) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.deps.Auth.Verify(data.AppID, data.Secret); err != nil {
		return errAuthenticationFailed
	}

	claims := getOperatorClaims(api.deps.Conf, data.AppID)
	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Sandbox: claims.Sandbox})
}

func (api *stewardApi) studentQuery(ctx echo.Context) error {
	force := ctx.QueryParam("refresh") == "true"

	students := api.deps.Roster.Students()
	if force || len(students) == 0 {
		var err error
		if students, err = api.deps.Roster.Refresh(ctx.Request().Context(), force); err != nil {
			return err
		}
	}

	inconsistent := 0
	for _, s := range students {
		if !s.Consistent() {
			inconsistent++
		}
	}
	return ctx.JSON(http.StatusOK, StudentListResponse{
		Students:     students,
		Total:        len(students),
		Inconsistent: inconsistent,
	})
}

// studentFix stages a correction on the pending window: the change shows up
// in the projection immediately but is only written upstream once the commit
// delay elapses. An empty body applies the suggested fixes (expected grade,
// normalized name and phone).
func (api *stewardApi) studentFix(ctx echo.Context) error {
	original, err := api.deps.Roster.Get(ctx.Param("id"))
	if err != nil {
		if err == roster.ErrNotFound {
			return errHTTPNotFound
		}
		return err
	}

	data := new(FixRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	target := original
	if data.Empty() {
		if !original.Consistent() {
			target.Grade = original.Expected
		}
		if original.NameAnomaly {
			target.Name = roster.FixName(original.Name)
		}
		if original.PhoneAnomaly {
			target.Phone = roster.FixPhone(original.Phone)
		}
	} else {
		if data.Name != nil {
			target.Name = *data.Name
		}
		if data.Grade != nil {
			target.Grade = *data.Grade
		}
		if data.Email != nil {
			target.Email = *data.Email
		}
		if data.Phone != nil {
			target.Phone = *data.Phone
		}
	}

	api.deps.Window.Stage(ctx.Request().Context(), original, target)

	return ctx.JSON(http.StatusAccepted, FixResponse{
		Student:     target,
		CommitDelay: api.commitDelay().String(),
	})
}

func (api *stewardApi) pendingRetrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, PendingResponse{Pending: api.deps.Window.Pending()})
}

func (api *stewardApi) pendingCancel(ctx echo.Context) error {
	if !api.deps.Window.Cancel() {
		return errNothingStaged
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *stewardApi) undo(ctx echo.Context) error {
	cmd, err := api.deps.History.Undo(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.historyResponse(cmd))
}

func (api *stewardApi) redo(ctx echo.Context) error {
	cmd, err := api.deps.History.Redo(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.historyResponse(cmd))
}

func (api *stewardApi) historySummary(ctx echo.Context) error {
	done, undone := api.deps.History.Summary()
	return ctx.JSON(http.StatusOK, HistoryResponse{
		Done:    done,
		Undone:  undone,
		CanUndo: api.deps.History.CanUndo(),
		CanRedo: api.deps.History.CanRedo(),
	})
}

func (api *stewardApi) auditQuery(ctx echo.Context) error {
	entries := []editing.AuditEntry{}
	if api.deps.Audit != nil {
		limit := defaultAuditLimit
		if raw := ctx.QueryParam("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}
		var err error
		if entries, err = api.deps.Audit.RecentEdits(ctx.Request().Context(), limit); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *stewardApi) duplicateQuery(ctx echo.Context) error {
	groups := api.deps.Roster.Duplicates()
	if groups == nil {
		groups = []roster.DuplicateGroup{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *stewardApi) gamificationRetrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.Stats.State())
}

func (api *stewardApi) configRetrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.configResponse())
}

func (api *stewardApi) configUpdate(ctx echo.Context) error {
	data := new(ConfigRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	cutoff := roster.Cutoff{Month: time.Month(data.CutoffMonth), Day: data.CutoffDay}
	api.deps.Roster.SetCutoff(cutoff)
	if api.deps.Settings != nil {
		if err := api.deps.Settings.SaveCutoff(ctx.Request().Context(), cutoff); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, api.configResponse())
}

func (api *stewardApi) commitDelay() time.Duration {
	if d := api.deps.Conf.Edit.CommitDelay; d > 0 {
		return d
	}
	return editing.DefaultCommitDelay
}

func (api *stewardApi) historyResponse(cmd editing.Command) UndoResponse {
	resp := UndoResponse{
		CanUndo: api.deps.History.CanUndo(),
		CanRedo: api.deps.History.CanRedo(),
	}
	if cmd != nil {
		resp.Description = cmd.Description()
	}
	return resp
}

func (api *stewardApi) configResponse() ConfigResponse {
	cutoff := api.deps.Roster.Cutoff()
	return ConfigResponse{
		CutoffMonth: int(cutoff.Month),
		CutoffDay:   cutoff.Day,
		Sandbox:     api.deps.Conf.Chms.Sandbox,
		CommitDelay: api.commitDelay().String(),
	}
}

// Responses

type (
	StudentListResponse struct {
		Students     []roster.Student `json:"students"`
		Total        int              `json:"total"`
		Inconsistent int              `json:"inconsistent"`
	}

	FixResponse struct {
		Student     roster.Student `json:"student"`
		CommitDelay string         `json:"commit_delay"`
	}

	PendingResponse struct {
		Pending bool `json:"pending"`
	}

	UndoResponse struct {
		Description string `json:"description,omitempty"`
		CanUndo     bool   `json:"can_undo"`
		CanRedo     bool   `json:"can_redo"`
	}

	HistoryResponse struct {
		Done    []string `json:"done"`
		Undone  []string `json:"undone"`
		CanUndo bool     `json:"can_undo"`
		CanRedo bool     `json:"can_redo"`
	}

	ConfigResponse struct {
		CutoffMonth int    `json:"cutoff_month"`
		CutoffDay   int    `json:"cutoff_day"`
		Sandbox     bool   `json:"sandbox"`
		CommitDelay string `json:"commit_delay"`
	}
)
