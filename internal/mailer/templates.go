package mailer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/inkpress/blog-engine/internal/domain"
)

var stripTagsRe = regexp.MustCompile(`<[^>]+>`)

// previewText extracts a short plain-text teaser from rich-text content.
func previewText(content string) string {
	plain := stripTagsRe.ReplaceAllString(content, " ")
	plain = strings.Join(strings.Fields(plain), " ")
	if len(plain) > 400 {
		plain = plain[:400]
	}
	return plain
}

// NewPostMessage renders the announcement mail for a freshly published
// post. The copy differs per content type: Articles belong to the "Social
// Pattern" section, Diary entries to "My Diary".
func NewPostMessage(blog *domain.Blog, authorName, clientURL string) Message {
	url := fmt.Sprintf("%s/blog/%s", strings.TrimRight(clientURL, "/"), blog.ID)
	preview := previewText(blog.Content)

	var subject, intro string
	if blog.Type == domain.TypeArticle {
		subject = fmt.Sprintf("%s - A new social pattern", blog.Title)
		intro = "A new story just went up in <b>Social Pattern</b> — a look at the patterns we live inside every day."
	} else {
		subject = fmt.Sprintf("%s - Open my diary", blog.Title)
		intro = "Something new landed in <b>My Diary</b> — unfiltered, a little messy, deeply personal."
	}

	html := fmt.Sprintf(`<div style="font-family: 'Inter', sans-serif; color: #222; line-height: 1.6; padding: 20px; max-width: 600px; margin: auto;">
  <p>Hi there,</p>
  <p>%s</p>
  <h2 style="margin-top: 30px;">%s</h2>
  <p>%s...</p>
  <a href="%s" target="_blank" style="display: inline-block; margin-top: 20px; padding: 10px 18px; background: #000; color: #fff; text-decoration: none; border-radius: 4px;">Read more →</a>
  <br/><br/>
  <p>— <b>%s</b></p>
</div>`, intro, blog.Title, preview, url, authorName)

	return Message{Subject: subject, HTML: html}
}

// WelcomeMessage renders the subscription welcome mail. The variant depends
// on the subscriber's full set after the subscribe action: holding every
// known category gets the combined welcome, otherwise the single-category
// copy for whichever one they hold. Returns ok=false when the set holds no
// known category.
func WelcomeMessage(name string, set domain.SubscriptionSet) (Message, bool) {
	switch {
	case set.HasAll():
		return welcome(name,
			"Welcome to all of it",
			"You're subscribed to both <b>Social Pattern</b> and <b>My Diary</b> — every new article and every new diary entry will land in your inbox.",
		), true
	case set.Has(domain.CategorySocial):
		return welcome(name,
			"Welcome to Social Pattern",
			"You'll get a mail whenever a new article explores the loops society quietly puts us in.",
		), true
	case set.Has(domain.CategoryDiary):
		return welcome(name,
			"Welcome to My Diary",
			"You'll get a mail whenever a new diary entry goes up — honest moments, no filters.",
		), true
	}
	return Message{}, false
}

func welcome(name, subject, body string) Message {
	html := fmt.Sprintf(`<div style="font-family: 'Inter', sans-serif; color: #222; line-height: 1.6; padding: 20px; max-width: 600px; margin: auto;">
  <p>Hi %s,</p>
  <p>%s</p>
  <p>Thanks for reading along.</p>
</div>`, name, body)
	return Message{Subject: subject, HTML: html}
}
