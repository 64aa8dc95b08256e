package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corey/tagcomplete/internal/adapters/socket"
	"github.com/corey/tagcomplete/internal/domain/tags"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

func paint(on bool, color, s string) string {
	if !on || s == "" {
		return s
	}
	return color + s + colorReset
}

// formatCandidates renders one candidate per line, tab separated:
//
//	word	kind	menu
//
// Empty kinds stay as empty columns so the output splits uniformly.
func formatCandidates(result *socket.CompleteResult, color bool) string {
	var sb strings.Builder
	for _, c := range result.Candidates {
		sb.WriteString(paint(color, colorCyan, c.Word))
		sb.WriteByte('\t')
		sb.WriteString(paint(color, colorMagenta, c.Kind))
		sb.WriteByte('\t')
		sb.WriteString(paint(color, colorGray, c.Menu))
		sb.WriteByte('\n')
	}
	if color {
		sb.WriteString(fmt.Sprintf("%s⚡ %d candidates%s │ %s\n",
			colorBold, len(result.Candidates), colorReset, result.Elapsed))
	}
	return sb.String()
}

// formatScope lists the selected tag files in search order.
func formatScope(scope []tags.TagFile) string {
	var sb strings.Builder
	for _, tf := range scope {
		sb.WriteString(tf.Path)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// formatKinds prints a kind table sorted by code.
func formatKinds(kinds map[string]string) string {
	codes := make([]string, 0, len(kinds))
	for code := range kinds {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var sb strings.Builder
	for _, code := range codes {
		sb.WriteString(fmt.Sprintf("%s\t%s\n", code, kinds[code]))
	}
	return sb.String()
}

// formatHealth formats daemon health and cache stats for terminal display.
func formatHealth(h *socket.HealthResult, st *socket.StatsResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ tagcomplete daemon%s\n", colorBold, colorReset))
	sb.WriteString(fmt.Sprintf("  Status:     %s%s%s\n", colorGreen, h.Status, colorReset))
	sb.WriteString(fmt.Sprintf("  Uptime:     %s\n", h.Uptime))
	sb.WriteString(fmt.Sprintf("  Requests:   %d\n", h.Requests))
	sb.WriteString(fmt.Sprintf("  Languages:  %d cached\n", st.Languages))
	sb.WriteString(fmt.Sprintf("  Kind sets:  %d cached\n", st.KindTables))
	sb.WriteString(fmt.Sprintf("  Mode:       %s (max %d)\n", st.Mode, st.MaxCandidates))
	if st.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("  Config:     %s\n", st.ConfigPath))
	}
	if st.CacheDB != "" {
		sb.WriteString(fmt.Sprintf("  Kind cache: %s\n", st.CacheDB))
	}
	return sb.String()
}
