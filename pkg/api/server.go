// Package api provides the REST API server for lyrictune
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/james-see/lyrictune/internal/config"
	"github.com/james-see/lyrictune/internal/logger"
	"github.com/james-see/lyrictune/pkg/harmony"
	"github.com/james-see/lyrictune/pkg/lyrics"
	"github.com/james-see/lyrictune/pkg/melody"
	"github.com/james-see/lyrictune/pkg/playback"
	"github.com/james-see/lyrictune/pkg/song"
	"github.com/james-see/lyrictune/pkg/theory"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Lyrictune API
// @version 1.0
// @description API for composing melodies and chord progressions from lyrics
// @host localhost:8080
// @BasePath /api/v1

// Server holds the defaults applied to requests
type Server struct {
	cfg *config.Config
}

// SyllablesRequest is the body of POST /api/v1/syllables
type SyllablesRequest struct {
	Lyrics string `json:"lyrics"`
}

// SyllablesResponse lists each word with its syllable count
type SyllablesResponse struct {
	Words     []string `json:"words"`
	Syllables []int    `json:"syllables"`
	Total     int      `json:"total"`
}

// ComposeRequest is the body of the compose endpoints. Syllables, when
// present, take precedence over Lyrics.
type ComposeRequest struct {
	Lyrics    string   `json:"lyrics"`
	Words     []string `json:"words,omitempty"`
	Syllables []int    `json:"syllables,omitempty"`
	Root      string   `json:"root"`
	Mode      string   `json:"mode"`
	Seed      *int64   `json:"seed,omitempty"`
	Tempo     float64  `json:"tempo"`
	Style     string   `json:"style"`
}

// ComposeResponse is a composed song with its bars and playback settings
type ComposeResponse struct {
	*song.Song
	Progression []string       `json:"progression"`
	Bars        []song.Bar     `json:"bars"`
	Tempo       float64        `json:"tempo"`
	Style       playback.Style `json:"style"`
}

// NewRouter builds the gin engine with all routes and middleware
func NewRouter(cfg *config.Config) *gin.Engine {
	s := &Server{cfg: cfg}

	r := gin.New()
	r.Use(recoverWithSentry())
	if cfg.SentryDSN != "" {
		r.Use(sentryMiddleware())
	}
	r.Use(requestTracking())
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/scales", listScales)
		v1.POST("/syllables", countSyllables)
		v1.POST("/compose", s.handleCompose)
		v1.POST("/compose/midi", s.handleComposeMIDI)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the configured port
func StartServer(cfg *config.Config) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Starting server", logger.Fields{"port": cfg.Port, "environment": cfg.Environment})
	return NewRouter(cfg).Run(":" + cfg.Port)
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lyrictune",
	})
}

// listScales godoc
// @Summary List supported musical vocabulary
// @Description Returns roots, modes, chord qualities, progression templates and accompaniment styles
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/scales [get]
func listScales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"roots":     theory.PitchClasses(),
		"modes":     theory.Modes(),
		"qualities": theory.Qualities(),
		"templates": harmony.Templates,
		"styles":    playback.Styles(),
	})
}

// countSyllables godoc
// @Summary Count syllables
// @Description Splits lyrics into words and estimates syllables per word
// @Tags compose
// @Accept json
// @Produce json
// @Param request body SyllablesRequest true "Lyrics"
// @Success 200 {object} SyllablesResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/syllables [post]
func countSyllables(c *gin.Context) {
	var req SyllablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	words, counts := lyrics.Process(req.Lyrics)
	c.JSON(http.StatusOK, SyllablesResponse{
		Words:     words,
		Syllables: counts,
		Total:     lyrics.Total(counts),
	})
}

// handleCompose godoc
// @Summary Compose a song
// @Description Generates a melody and chord progression for lyrics or syllable counts
// @Tags compose
// @Accept json
// @Produce json
// @Param request body ComposeRequest true "Composition request"
// @Success 200 {object} ComposeResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/compose [post]
func (s *Server) handleCompose(c *gin.Context) {
	resp, ok := s.compose(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleComposeMIDI godoc
// @Summary Compose a song as MIDI
// @Description Same as /compose but returns a Standard MIDI File
// @Tags compose
// @Accept json
// @Produce audio/midi
// @Param request body ComposeRequest true "Composition request"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/compose/midi [post]
func (s *Server) handleComposeMIDI(c *gin.Context) {
	resp, ok := s.compose(c)
	if !ok {
		return
	}

	data, err := playback.NewMIDIRenderer().Render(playback.Arrangement{
		Measures: resp.Measures,
		Chords:   resp.Chords,
		Tempo:    resp.Tempo,
		Style:    resp.Style,
	})
	if err != nil {
		logger.Error("Failed to render MIDI", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=lyrictune-%d.mid", resp.Seed))
	c.Data(http.StatusOK, "audio/midi", data)
}

// compose binds the request, applies defaults and runs the pipeline. It
// writes the error response itself and reports whether to continue.
func (s *Server) compose(c *gin.Context) (*ComposeResponse, bool) {
	var req ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}

	opts, tempo, style, err := s.resolve(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var result *song.Song
	if req.Syllables != nil {
		result, err = song.ComposeSyllables(req.Words, req.Syllables, opts)
	} else {
		result, err = song.Compose(req.Lyrics, opts)
	}
	if err != nil {
		if isClientError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Composition failed", err, logger.WithContext(c))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}

	fields := logger.WithContext(c)
	fields["seed"] = result.Seed
	fields["measures"] = len(result.Measures)
	logger.Debug("Composed song", fields)

	return &ComposeResponse{
		Song:        result,
		Progression: result.TemplateSymbols(),
		Bars:        result.Bars(),
		Tempo:       tempo,
		Style:       style,
	}, true
}

// resolve merges request fields over configured defaults
func (s *Server) resolve(req ComposeRequest) (song.Options, float64, playback.Style, error) {
	rootName, modeName, styleName := req.Root, req.Mode, req.Style
	if rootName == "" {
		rootName = s.cfg.Root
	}
	if modeName == "" {
		modeName = s.cfg.Mode
	}
	if styleName == "" {
		styleName = s.cfg.Style
	}
	tempo := req.Tempo
	if tempo == 0 {
		tempo = s.cfg.Tempo
	}

	opts := song.DefaultOptions()
	root, err := theory.ParsePitchClass(rootName)
	if err != nil {
		return opts, 0, 0, err
	}
	mode, err := theory.ParseMode(modeName)
	if err != nil {
		return opts, 0, 0, err
	}
	style, err := playback.ParseStyle(styleName)
	if err != nil {
		return opts, 0, 0, err
	}
	if tempo <= 0 {
		return opts, 0, 0, fmt.Errorf("%w: %v", playback.ErrInvalidTempo, tempo)
	}

	opts.Root = root
	opts.Mode = mode
	opts.Seed = req.Seed
	return opts, tempo, style, nil
}

func isClientError(err error) bool {
	for _, target := range []error{
		theory.ErrUnsupportedMode,
		theory.ErrMalformedPitchClass,
		melody.ErrNegativeSyllables,
		melody.ErrTooManySyllables,
		song.ErrMismatchedInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
