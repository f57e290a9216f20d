package templates

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	g "github.com/maragudk/gomponents"
	"gorm.io/datatypes"
)

// parseMarkdown renders post and comment bodies, which are stored as
// markdown text.
func parseMarkdown(markdownStr string) g.Node {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(markdownStr))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return g.Raw(string(markdown.Render(doc, renderer)))
}

func jsonListToCommaSeparated(jsonList datatypes.JSON) string {
	if len(jsonList) == 0 {
		return ""
	}
	var tags []string
	err := json.Unmarshal(jsonList, &tags)
	if err != nil {
		log.Printf("Failed to parse JSON list: %v", err)
		return ""
	}
	for i, tag := range tags {
		tags[i] = strings.TrimSpace(tag)
	}
	return strings.Join(tags, ", ")
}

// gravatarURL builds the avatar image URL for a commenter, using the
// random default-image style assigned to the account at registration.
func gravatarURL(email, style string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=100&d=%s&r=g",
		hex.EncodeToString(sum[:]), style)
}
