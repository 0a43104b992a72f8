package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"escaperoom/internal/catalog"
	"escaperoom/internal/game"
	"escaperoom/internal/level"
	"escaperoom/internal/roomplan"
	"escaperoom/internal/session"
)

type Server struct {
	Engine *game.Engine
	Store  session.Store[game.Session]
	Logger *slog.Logger

	// Delays of the scheduled follow-up actions. Zero dispatches at once.
	AnswerDelay  time.Duration // last correct answer to ALL_QUESTIONS_CORRECT
	RevealDelay  time.Duration // ALL_QUESTIONS_CORRECT to REVEAL_KEY
	DoorDelay    time.Duration // door click to NEXT_LEVEL
	CookieSecure bool

	timers timers
	after  func(time.Duration, func())
}

const cookieName = "escaperoom_sid"

var (
	errNoSession     = errors.New("no session")
	errUnknownObject = errors.New("unknown room object")
)

// intents maps the path names of player intents to state-machine actions.
var intents = map[string]game.ActionKind{
	"startGame":           game.ActionStartGame,
	"showQuestionPanel":   game.ActionShowQuestionPanel,
	"hideQuestionPanel":   game.ActionHideQuestionPanel,
	"allQuestionsCorrect": game.ActionAllQuestionsCorrect,
	"loseLife":            game.ActionLoseLife,
	"clearFeedback":       game.ActionClearFeedback,
	"revealKey":           game.ActionRevealKey,
	"collectKey":          game.ActionCollectKey,
	"activateSwitch":      game.ActionActivateSwitch,
	"nextLevel":           game.ActionNextLevel,
	"restart":             game.ActionRestart,
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(s.logger()))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.handleSession)
		r.Get("/state", s.handleState)
		r.Post("/intents/{intent}", s.handleIntent)
		r.Post("/objects/{id}/click", s.handleObjectClick)
		r.Post("/answer", s.handleAnswer)
		r.Get("/plan.pdf", s.handlePlan)
	})
	return r
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/state", http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := http.StatusOK
	id := s.sessionID(r)
	sess, ok, err := s.lookup(ctx, id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if !ok {
		id = s.Store.NewID()
		sess = game.NewSession()
		if err := s.Store.Put(ctx, id, sess); err != nil {
			s.internalError(w, r, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		status = http.StatusCreated
		s.logger().Info("session created", "session", id)
	}
	s.writeSnapshot(w, r, status, sess)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	s.writeSnapshot(w, r, http.StatusOK, sess)
}

// IntentView reports whether an intent changed the game.
type IntentView struct {
	Applied  bool      `json:"applied"`
	Snapshot *Snapshot `json:"snapshot"`
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	kind, ok := intents[chi.URLParam(r, "intent")]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown intent")
		return
	}
	id := s.sessionID(r)
	applied := false
	sess, err := s.Store.Update(r.Context(), id, func(sess game.Session, ok bool) (game.Session, error) {
		if !ok {
			return sess, errNoSession
		}
		if kind == game.ActionStartGame {
			var err error
			sess, applied, err = s.Engine.StartGame(sess)
			return sess, err
		}
		sess, applied = s.Engine.Apply(sess, game.Action{Kind: kind})
		return sess, nil
	})
	if err != nil {
		s.updateError(w, r, err)
		return
	}
	s.logger().Debug("intent", "session", id, "action", kind, "applied", applied)
	s.writeIntent(w, r, applied, sess)
}

func (s *Server) handleObjectClick(w http.ResponseWriter, r *http.Request) {
	objectID := chi.URLParam(r, "id")
	id := s.sessionID(r)
	applied := false
	var later []step
	sess, err := s.Store.Update(r.Context(), id, func(sess game.Session, ok bool) (game.Session, error) {
		if !ok {
			return sess, errNoSession
		}
		kind, steps, err := s.clickAction(sess, objectID)
		if err != nil {
			return sess, err
		}
		later = steps
		if kind == "" {
			return sess, nil
		}
		sess, applied = s.Engine.Apply(sess, game.Action{Kind: kind})
		return sess, nil
	})
	if err != nil {
		s.updateError(w, r, err)
		return
	}
	if len(later) > 0 {
		applied = true
		s.dispatchLater(id, sess.Epoch, later...)
		sess, _, err = s.lookup(r.Context(), id)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
	}
	s.writeIntent(w, r, applied, sess)
}

// clickAction turns a click on objectID into the action it stands for, plus
// any follow-up actions to schedule. An empty kind means the click does
// nothing in the current state.
func (s *Server) clickAction(sess game.Session, objectID string) (game.ActionKind, []step, error) {
	st := sess.State
	switch objectID {
	case catalog.SwitchID:
		return game.ActionActivateSwitch, nil, nil
	case catalog.DoorID:
		if st.Phase != game.PhasePlaying || !st.DoorUnlocked {
			return "", nil, nil
		}
		return game.ActionClearFeedback, []step{{delay: s.DoorDelay, kind: game.ActionNextLevel}}, nil
	}
	if _, ok := s.Engine.Catalog().Object(objectID); !ok {
		return "", nil, fmt.Errorf("%w: %s", errUnknownObject, objectID)
	}
	if st.Phase != game.PhasePlaying {
		return "", nil, nil
	}
	setup, err := s.Engine.Setup(sess)
	if err != nil {
		return "", nil, err
	}
	switch setup.RoleOf(objectID) {
	case level.RoleQuestions:
		return game.ActionShowQuestionPanel, nil, nil
	case level.RoleKeyHider:
		if st.KeyRevealed {
			return game.ActionCollectKey, nil, nil
		}
	}
	return "", nil, nil
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := s.sessionID(r)
	var res game.AnswerResult
	sess, err := s.Store.Update(r.Context(), id, func(sess game.Session, ok bool) (game.Session, error) {
		if !ok {
			return sess, errNoSession
		}
		var err error
		sess, res, err = s.Engine.SubmitAnswer(sess, req.Answer)
		return sess, err
	})
	switch {
	case errors.Is(err, game.ErrEmptyAnswer):
		writeError(w, http.StatusBadRequest, "answer is required")
		return
	case errors.Is(err, game.ErrNotPlaying), errors.Is(err, game.ErrNoActiveQuestion):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.updateError(w, r, err)
		return
	}
	s.logger().Info("answer submitted",
		"session", id,
		"question", res.Question.ID,
		"correct", res.Correct,
		"lives", sess.State.Lives,
	)

	if res.AllCorrect {
		s.dispatchLater(id, sess.Epoch,
			step{delay: s.AnswerDelay, kind: game.ActionAllQuestionsCorrect},
			step{delay: s.RevealDelay, kind: game.ActionRevealKey},
		)
		sess, _, err = s.lookup(r.Context(), id)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
	}

	snap, err := s.makeSnapshot(sess)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	view := AnswerView{
		Correct:    res.Correct,
		AllCorrect: res.AllCorrect,
		LivesReset: res.LivesReset,
		Snapshot:   snap,
	}
	if res.Correct {
		view.Explanation = res.Question.Explanation
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	setup, err := s.Engine.Setup(sess)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	b, err := roomplan.Generate(s.Engine.Catalog(), setup, sess.State)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=room-plan-level-%d.pdf", sess.State.Level))
	_, _ = w.Write(b)
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) lookup(ctx context.Context, id string) (game.Session, bool, error) {
	if id == "" {
		return game.Session{}, false, nil
	}
	return s.Store.Get(ctx, id)
}

// requireSession loads the caller's session or writes a 404.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (game.Session, string, bool) {
	id := s.sessionID(r)
	sess, ok, err := s.lookup(r.Context(), id)
	if err != nil {
		s.internalError(w, r, err)
		return game.Session{}, "", false
	}
	if !ok {
		writeError(w, http.StatusNotFound, errNoSession.Error())
		return game.Session{}, "", false
	}
	return sess, id, true
}

func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request, status int, sess game.Session) {
	snap, err := s.makeSnapshot(sess)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, status, snap)
}

func (s *Server) writeIntent(w http.ResponseWriter, r *http.Request, applied bool, sess game.Session) {
	snap, err := s.makeSnapshot(sess)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, IntentView{Applied: applied, Snapshot: snap})
}

func (s *Server) updateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errNoSession):
		writeError(w, http.StatusNotFound, errNoSession.Error())
	case errors.Is(err, errUnknownObject):
		writeError(w, http.StatusNotFound, errUnknownObject.Error())
	default:
		s.internalError(w, r, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger().Error("request failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}
