// Package api provides the REST API server for the cmajor toolkit
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/soundfold/cmajor/pkg/doctor"
	"github.com/soundfold/cmajor/pkg/scale"
	"github.com/soundfold/cmajor/pkg/sequence"
	"github.com/soundfold/cmajor/pkg/vocab"
)

// @title cmajor API
// @version 1.0
// @description API for scale-constrained pitch filtering and demo rendering
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/scales", listScales)
		v1.POST("/filter", handleFilter)
		v1.GET("/allowed/:pitch", handleAllowed)
		v1.POST("/render/demo", handleRenderDemo)
		v1.GET("/doctor", handleDoctor)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
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
		"service": "cmajor",
	})
}

// listScales godoc
// @Summary List known scales
// @Description Returns the scale kinds the API can build plus the default scale's pitch classes
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/scales [get]
func listScales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"kinds":           scale.KnownScaleNames(),
		"default":         scale.CMajor.Name(),
		"default_classes": scale.CMajor.Classes(),
	})
}

// FilterRequest describes a vocabulary filtering request. Either Name or
// Classes selects the scale; Name wins when both are set. Low and High
// are optional absolute pitch bounds; absent means unbounded.
type FilterRequest struct {
	Name      string `json:"name"`
	Classes   []int  `json:"classes"`
	Low       *int   `json:"low"`
	High      *int   `json:"high"`
	VocabSize int    `json:"vocab_size"`
	BaseToken int    `json:"base_token"`
}

// FilterResponse carries the kept tokens and derived statistics.
type FilterResponse struct {
	Scale          string   `json:"scale"`
	Tokens         []int    `json:"tokens"`
	Pitches        []string `json:"pitches"`
	Total          int      `json:"total"`
	Kept           int      `json:"kept"`
	ReductionRatio float64  `json:"reduction_ratio"`
}

func scaleFromRequest(req FilterRequest) (scale.Scale, error) {
	if req.Name != "" {
		return scale.ByName(req.Name)
	}
	if len(req.Classes) == 0 {
		return scale.CMajor, nil
	}
	classes := make([]scale.PitchClass, 0, len(req.Classes))
	for _, cl := range req.Classes {
		if cl < 0 || cl > int(scale.MaxPitchClass) {
			return scale.Scale{}, fmt.Errorf("%w: pitch class %d out of range [0,11]", scale.ErrConfig, cl)
		}
		classes = append(classes, scale.PitchClass(cl))
	}
	return scale.New("custom", classes...)
}

func rangeFromRequest(req FilterRequest) (*scale.Range, error) {
	if req.Low == nil && req.High == nil {
		return nil, nil
	}
	low, high := 0, int(scale.MaxPitch)
	if req.Low != nil {
		low = *req.Low
	}
	if req.High != nil {
		high = *req.High
	}
	if low < 0 || high < 0 || low > int(scale.MaxPitch) || high > int(scale.MaxPitch) {
		return nil, fmt.Errorf("%w: range %d..%d outside MIDI pitch domain", scale.ErrConfig, low, high)
	}
	return &scale.Range{Low: scale.Pitch(low), High: scale.Pitch(high)}, nil
}

// handleFilter godoc
// @Summary Filter a pitch-token vocabulary
// @Description Returns the token IDs whose pitches are permitted by the requested scale and optional range
// @Tags filter
// @Accept json
// @Produce json
// @Success 200 {object} FilterResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/filter [post]
func handleFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s, err := scaleFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rng, err := rangeFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := scale.NewRangedFilter(s, rng)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	size := req.VocabSize
	if size == 0 {
		size = int(scale.MaxPitch) + 1
	}
	v, err := vocab.New(vocab.TokenID(req.BaseToken), size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kept := v.Filter(f)
	tokens := make([]int, len(kept))
	pitches := make([]string, len(kept))
	for i, tok := range kept {
		tokens[i] = int(tok)
		p, _ := v.PitchFor(tok)
		pitches[i] = p.Name()
	}

	c.JSON(http.StatusOK, FilterResponse{
		Scale:          s.Name(),
		Tokens:         tokens,
		Pitches:        pitches,
		Total:          v.Len(),
		Kept:           len(kept),
		ReductionRatio: scale.ReductionRatio(v.Len(), len(kept)),
	})
}

// handleAllowed godoc
// @Summary Classify a single pitch
// @Description Reports whether a MIDI pitch is in the requested scale (query param "scale", default C major)
// @Tags filter
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/allowed/{pitch} [get]
func handleAllowed(c *gin.Context) {
	p, err := strconv.Atoi(c.Param("pitch"))
	if err != nil || p < 0 || p > int(scale.MaxPitch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pitch must be an integer in [0,127]"})
		return
	}

	s := scale.CMajor
	if name := c.Query("scale"); name != "" {
		s, err = scale.ByName(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	f, err := scale.NewFilter(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pitch := scale.Pitch(p)
	c.JSON(http.StatusOK, gin.H{
		"pitch":   p,
		"name":    pitch.Name(),
		"class":   pitch.Class(),
		"scale":   s.Name(),
		"allowed": f.Allows(pitch),
	})
}

// handleRenderDemo godoc
// @Summary Render the demo progression
// @Description Renders the C-F-G-C chord progression and returns it as a MIDI file
// @Tags render
// @Produce application/octet-stream
// @Success 200 {file} binary
// @Failure 500 {object} map[string]string
// @Router /api/v1/render/demo [post]
func handleRenderDemo(c *gin.Context) {
	data, err := sequence.ToSMF(sequence.CMajorDemo())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=c_major_demo.mid")
	c.Data(http.StatusOK, "audio/midi", data)
}

// handleDoctor godoc
// @Summary Run environment checks
// @Description Runs the startup checks and returns the report
// @Tags info
// @Produce json
// @Success 200 {object} doctor.Report
// @Router /api/v1/doctor [get]
func handleDoctor(c *gin.Context) {
	report := doctor.Run(doctor.Options{})
	c.JSON(http.StatusOK, gin.H{
		"ready":  report.Ready(),
		"checks": report.Checks,
	})
}
