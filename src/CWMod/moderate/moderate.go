package moderate

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openhalls/campuswatch/src/shared/ai"
)

// Verdict is the normalized moderation result returned to callers.
type Verdict struct {
	ShouldApprove bool   `json:"shouldApprove"`
	FlagReason    string `json:"flagReason,omitempty"`
}

var approveVerdict = Verdict{ShouldApprove: true}

type Handler struct {
	judge ai.Client // nil when no credentials are configured
	opts  ai.Options
}

// NewHandler builds the moderation handler. A nil judge means every request
// resolves to the default-approve verdict.
func NewHandler(judge ai.Client) *Handler {
	return &Handler{
		judge: judge,
		opts:  ai.Options{SystemPrompt: SystemPolicy},
	}
}

// Moderate implements POST /moderate-content. The gateway is stateless and
// idempotent: no verdict is stored.
func (h *Handler) Moderate(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		// Nothing to judge: this is the one failure that is not fail-open.
		c.JSON(http.StatusBadRequest, Verdict{ShouldApprove: false, FlagReason: "Empty content"})
		return
	}

	if h.judge == nil {
		log.Printf("moderate: no judge credentials configured, approving by default")
		c.JSON(http.StatusOK, approveVerdict)
		return
	}

	raw, err := h.judge.Complete(c.Request.Context(), req.Content, h.opts)
	verdict := resolveVerdict(raw, err)
	if !verdict.ShouldApprove {
		log.Printf("moderate: flagged content (%d chars): %s", len(req.Content), verdict.FlagReason)
	}
	c.JSON(http.StatusOK, verdict)
}

// resolveVerdict is the single fail-open point. Every non-success path (judge
// error, rate limit, unparseable output) maps to the same default-approve
// constant; a hard error never propagates to the caller.
func resolveVerdict(raw string, err error) Verdict {
	if err != nil {
		log.Printf("moderate: judge call failed, failing open: %v", err)
		return approveVerdict
	}
	var v Verdict
	if jerr := json.Unmarshal([]byte(extractJSON(raw)), &v); jerr != nil {
		log.Printf("moderate: unparseable judge response, failing open: %v", jerr)
		return approveVerdict
	}
	if v.ShouldApprove {
		v.FlagReason = ""
	}
	return v
}

// extractJSON tolerates judges that wrap their answer in markdown fences or
// leading prose by slicing out the outermost object.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}
