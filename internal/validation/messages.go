package validation

import (
	"golang.org/x/text/language"
)

// MessageKey identifies a user-facing validation message.
type MessageKey string

const (
	MsgUsernameLength MessageKey = "username_length"
	MsgUsernameTaken  MessageKey = "username_taken"
	MsgEmailTaken     MessageKey = "email_taken"
)

var catalogs = map[language.Tag]map[MessageKey]string{
	language.Turkish: {
		MsgUsernameLength: "Kullanıcı adı en az 6 en çok 30 karakter içerlemidir",
		MsgUsernameTaken:  "Kullanıcı adı mevcut",
		MsgEmailTaken:     "Bu email adresi kullanımda",
	},
	language.English: {
		MsgUsernameLength: "Username must be between 6 and 30 characters",
		MsgUsernameTaken:  "This username is already taken",
		MsgEmailTaken:     "This email address is already in use",
	},
}

// Messages picks the catalog that best matches a client's Accept-Language header.
type Messages struct {
	tags    []language.Tag
	matcher language.Matcher
}

// NewMessages builds a Messages whose fallback is defaultLocale (Turkish when unknown).
func NewMessages(defaultLocale string) *Messages {
	fallback := language.Turkish
	if tag, err := language.Parse(defaultLocale); err == nil {
		if _, ok := catalogs[tag]; ok {
			fallback = tag
		}
	}

	tags := []language.Tag{fallback}
	for _, tag := range []language.Tag{language.Turkish, language.English} {
		if tag != fallback {
			tags = append(tags, tag)
		}
	}
	return &Messages{tags: tags, matcher: language.NewMatcher(tags)}
}

// Get returns the message for key in the language negotiated from acceptLanguage.
func (m *Messages) Get(acceptLanguage string, key MessageKey) string {
	return catalogs[m.resolve(acceptLanguage)][key]
}

func (m *Messages) resolve(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return m.tags[0]
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return m.tags[0]
	}
	_, idx, confidence := m.matcher.Match(desired...)
	if confidence == language.No {
		return m.tags[0]
	}
	return m.tags[idx]
}
