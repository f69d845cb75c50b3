package reconcile

import (
	"fmt"
	"reflect"

	"site-sync/core/utils"

	"github.com/go-viper/mapstructure/v2"
)

// postPayload is the wire shape of a post or attachment. Nested values are
// kept loose and normalised with the utils converters since senders encode
// empty collections inconsistently.
type postPayload struct {
	ID            string `mapstructure:"ID"`
	PostType      string `mapstructure:"post_type"`
	PostStatus    string `mapstructure:"post_status"`
	PostTitle     string `mapstructure:"post_title"`
	PostName      string `mapstructure:"post_name"`
	PostContent   string `mapstructure:"post_content"`
	PostExcerpt   string `mapstructure:"post_excerpt"`
	PostAuthor    string `mapstructure:"post_author"`
	PostParent    string `mapstructure:"post_parent"`
	PostMimeType  string `mapstructure:"post_mime_type"`
	GUID          string `mapstructure:"guid"`
	MenuOrder     int    `mapstructure:"menu_order"`
	CommentStatus string `mapstructure:"comment_status"`
	PostDate      any    `mapstructure:"post_date"`
	PostModified  any    `mapstructure:"post_modified"`
	MetaInput     any    `mapstructure:"meta_input"`
	EmbeddedMedia any    `mapstructure:"embedded_media"`
	TaxInput      any    `mapstructure:"tax_input"`
	Comments      any    `mapstructure:"comments"`
	FeaturedImage any    `mapstructure:"featured_image"`

	// Attachment only.
	AttachmentURL string `mapstructure:"attachment_url"`
	Details       any    `mapstructure:"details"`
}

type userPayload struct {
	ID             string `mapstructure:"ID"`
	UserLogin      string `mapstructure:"user_login"`
	UserEmail      string `mapstructure:"user_email"`
	UserNicename   string `mapstructure:"user_nicename"`
	UserURL        string `mapstructure:"user_url"`
	DisplayName    string `mapstructure:"display_name"`
	UserRegistered any    `mapstructure:"user_registered"`
	Role           string `mapstructure:"role"`
	MetaInput      any    `mapstructure:"meta_input"`
}

type optionPayload struct {
	OptionName  string `mapstructure:"option_name"`
	OptionValue any    `mapstructure:"option_value"`
	Autoload    any    `mapstructure:"autoload"`
}

type termPayload struct {
	TermID      string `mapstructure:"term_id"`
	Taxonomy    string `mapstructure:"taxonomy"`
	Name        string `mapstructure:"name"`
	Slug        string `mapstructure:"slug"`
	Description string `mapstructure:"description"`
	Parent      string `mapstructure:"parent"`
	MetaInput   any    `mapstructure:"meta_input"`
}

type commentPayload struct {
	CommentID          string `mapstructure:"comment_ID"`
	CommentPostID      string `mapstructure:"comment_post_ID"`
	PostType           string `mapstructure:"post_type"`
	CommentAuthor      string `mapstructure:"comment_author"`
	CommentAuthorEmail string `mapstructure:"comment_author_email"`
	CommentAuthorURL   string `mapstructure:"comment_author_url"`
	CommentContent     string `mapstructure:"comment_content"`
	CommentApproved    string `mapstructure:"comment_approved"`
	CommentType        string `mapstructure:"comment_type"`
	CommentParent      string `mapstructure:"comment_parent"`
	CommentDate        any    `mapstructure:"comment_date"`
	UserID             string `mapstructure:"user_id"`
	PostAuthor         string `mapstructure:"post_author"`
	MetaInput          any    `mapstructure:"meta_input"`
}

// decodePayload decodes a loosely typed wire map into out. Numbers, numeric
// strings and booleans convert freely between each other.
func decodePayload(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       falseToEmptyHook,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// falseToEmptyHook decodes a false sent for an absent string field as "".
func falseToEmptyHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() == reflect.String && from.Kind() == reflect.Bool {
		if b, _ := data.(bool); !b {
			return "", nil
		}
	}
	return data, nil
}

// metaOf returns the meta_input mapping of a payload, never nil.
func metaOf(raw any) map[string]any {
	meta := utils.ToStringMap(raw)
	if meta == nil {
		return map[string]any{}
	}
	return meta
}

// remoteIDOf returns the remote id carried in a nested payload: the
// press_sync_* meta key if present, otherwise the fallback field.
func remoteIDOf(payload map[string]any, metaKey, field string) string {
	if id := utils.ToString(metaOf(payload["meta_input"])[metaKey]); !isEmptyID(id) {
		return id
	}
	return utils.ToString(payload[field])
}

// originOf returns the origin carried in a nested payload, or fallback.
func originOf(payload map[string]any, fallback string) string {
	if src := utils.ToString(metaOf(payload["meta_input"])["press_sync_source"]); src != "" {
		return src
	}
	return fallback
}
