package ops

import (
	"context"
	stderrors "errors"

	"github.com/hpungsan/urlcopy/internal/errors"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/tab"
	"github.com/hpungsan/urlcopy/internal/transform"
)

const (
	msgNoURL   = "No URL found"
	msgNoTitle = "No title found"
)

// CopyOutput describes the message sent for a copy.
// Delivered is false when the tab had no listener.
type CopyOutput struct {
	TabID     int         `json:"tab_id"`
	Message   tab.Message `json:"message"`
	Delivered bool        `json:"delivered"`
}

// Copy reads the active tab, runs the transform pipeline with the stored
// preferences, and sends the result to the tab.
func Copy(ctx context.Context, d Deps) (*CopyOutput, error) {
	t, err := d.Tabs.ActiveTab(ctx)
	if err != nil {
		d.log().Error("failed to query tabs", "error", err)
		return nil, errors.NewInternal(err)
	}
	if t == nil {
		d.log().Warn("no active tab found")
		return nil, errors.NewNotFound("no active tab found")
	}
	if t.ID == 0 {
		d.log().Warn("active tab has no ID")
		return nil, errors.NewNotFound("active tab has no ID")
	}

	if t.URL == "" {
		return deliver(ctx, d, t.ID, tab.ErrorMessage(msgNoURL)), nil
	}

	v, err := readPipelinePrefs(ctx, d)
	if err != nil {
		d.log().Error("failed to read preferences", "error", err)
		return deliver(ctx, d, t.ID, tab.ErrorMessage(err.Error())), nil
	}

	out := Format(FormatInput{
		URL:          t.URL,
		Title:        t.Title,
		Style:        v.Style,
		RemoveParams: v.RemoveParams,
		URLDecoding:  v.URLDecoding,
	})
	for _, w := range out.Warnings {
		d.log().Warn("url transform failed", "tab_id", t.ID, "error", w)
	}
	return deliver(ctx, d, t.ID, out.Message), nil
}

// readPipelinePrefs reads the flags the pipeline needs. Unlike prefs.Snapshot,
// unset toggles count as off and an unset style stays empty.
func readPipelinePrefs(ctx context.Context, d Deps) (prefs.Values, error) {
	var v prefs.Values
	var err error
	if v.RemoveParams, _, err = prefs.GetBool(ctx, d.Store, prefs.KeyRemoveParams); err != nil {
		return v, err
	}
	if v.URLDecoding, _, err = prefs.GetBool(ctx, d.Store, prefs.KeyURLDecoding); err != nil {
		return v, err
	}
	style, _, err := prefs.GetString(ctx, d.Store, prefs.KeyCopyStyle)
	if err != nil {
		return v, err
	}
	v.Style = transform.Style(style)
	return v, nil
}

// deliver sends msg to the tab. A tab without a listener is logged and
// otherwise ignored. Other send failures are reported back to the tab.
func deliver(ctx context.Context, d Deps, tabID int, msg tab.Message) *CopyOutput {
	out := &CopyOutput{TabID: tabID, Message: msg}

	err := d.Messenger.Send(ctx, tabID, msg)
	if err == nil {
		out.Delivered = true
		return out
	}
	if stderrors.Is(err, tab.ErrNoReceivingEnd) {
		d.log().Info("url-copy cannot run on the current page", "tab_id", tabID)
		return out
	}

	d.log().Error("failed to send message", "tab_id", tabID, "error", err)
	out.Message = tab.ErrorMessage(err.Error())
	if err := d.Messenger.Send(ctx, tabID, out.Message); err != nil {
		d.log().Error("failed to send message", "tab_id", tabID, "error", err)
		return out
	}
	out.Delivered = true
	return out
}

// FormatInput is a URL and title with the pipeline settings to apply.
type FormatInput struct {
	URL          string          `json:"url"`
	Title        string          `json:"title"`
	Style        transform.Style `json:"style"`
	RemoveParams bool            `json:"remove_params"`
	URLDecoding  bool            `json:"url_decoding"`
}

// FormatOutput is the message a copy would send. Warnings hold the
// non-fatal transform failures.
type FormatOutput struct {
	Message  tab.Message `json:"message"`
	URL      string      `json:"url"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Format runs the transform pipeline without a tab or a store.
func Format(in FormatInput) FormatOutput {
	if in.URL == "" {
		return FormatOutput{Message: tab.ErrorMessage(msgNoURL)}
	}

	out := FormatOutput{URL: in.URL}
	if in.RemoveParams {
		if cleaned, err := transform.RemoveTrackingParams(out.URL); err != nil {
			out.Warnings = append(out.Warnings, err.Error())
		} else {
			out.URL = cleaned
		}
	}
	if in.URLDecoding {
		if decoded, err := transform.DecodePercentEncoding(out.URL); err != nil {
			out.Warnings = append(out.Warnings, err.Error())
		} else {
			out.URL = decoded
		}
	}

	switch {
	case in.Style == "" || in.Style == transform.StylePlain:
		out.Message = tab.CopyMessage(out.URL)
	case in.Title == "":
		out.Message = tab.ErrorMessage(msgNoTitle)
	default:
		out.Message = tab.CopyMessage(transform.FormatOutput(in.Title, out.URL, in.Style))
	}
	return out
}
