package dom

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html><html><head><title>t</title></head>
<body data-collection="summer">
  <nav><a id="cart-toggle" class="nav-link">Cart</a></nav>
  <div id="cart-subtotal">-</div>
  <footer><span id="cart-subtotal">-</span></footer>
  <div id="cart-body" class="drawer"><p class="old">stale</p></div>
  <button id="add" class="btn primary" disabled>Add</button>
  <img id="prod-img-1" style="color: red">
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	require.NoError(t, err)
	return doc
}

func TestQueries(t *testing.T) {
	doc := mustParse(t, page)

	assert.Equal(t, "summer", doc.Body().Data("collection"))
	assert.Equal(t, "Cart", doc.Query("#cart-toggle").Text())
	assert.Len(t, doc.AllByID("cart-subtotal"), 2)
	assert.Len(t, doc.QueryAll(`[id="cart-subtotal"]`), 2)
	assert.Equal(t, "div", doc.ByID("cart-subtotal").Tag())
	assert.Nil(t, doc.Query("#missing"))
	assert.Nil(t, doc.Query("[[invalid"))
	assert.Nil(t, doc.QueryAll("[[invalid"))
}

func TestClasses(t *testing.T) {
	doc := mustParse(t, page)
	btn := doc.ByID("add")

	assert.True(t, btn.HasClass("primary"))
	btn.AddClass("active", "primary")
	assert.Equal(t, "btn primary active", btn.GetAttr("class"))
	btn.RemoveClass("primary")
	assert.Equal(t, "btn active", btn.GetAttr("class"))
	btn.ToggleClass("hidden", true)
	assert.True(t, btn.HasClass("hidden"))
	btn.ToggleClass("hidden", false)
	assert.False(t, btn.HasClass("hidden"))
}

func TestStyleDisplay(t *testing.T) {
	doc := mustParse(t, page)
	img := doc.ByID("prod-img-1")

	img.SetStyleDisplay("none")
	assert.Equal(t, "color: red; display: none", img.GetAttr("style"))
	assert.Equal(t, "none", img.Style("display"))

	img.SetStyleDisplay("")
	assert.Equal(t, "color: red", img.GetAttr("style"))
	img.SetStyle("color", "")
	assert.False(t, img.HasAttr("style"))
}

func TestContentEditing(t *testing.T) {
	doc := mustParse(t, page)
	body := doc.ByID("cart-body")

	require.NoError(t, body.SetInnerHTML(`<div class="cart-line">a</div><div class="cart-line">b</div>`))
	assert.Len(t, body.QueryAll(".cart-line"), 2)
	assert.Empty(t, body.QueryAll(".old"))

	require.NoError(t, body.AppendHTML(`<div class="cart-line">c</div>`))
	assert.Len(t, body.Children(), 3)

	body.SetText("<b>escaped</b>")
	assert.Equal(t, "&lt;b&gt;escaped&lt;/b&gt;", body.InnerHTML())

	el := doc.CreateElement("DIV")
	el.SetAttr("id", "stock-warning")
	doc.ByID("add").After(el)
	assert.True(t, doc.ByID("add").NextElementSibling().Same(el))
	assert.True(t, el.Connected())
	assert.Equal(t, "body", el.Parent().Tag())

	el.Remove()
	assert.False(t, el.Connected())
}

func TestClosestAndQueryExcludesSelf(t *testing.T) {
	doc := mustParse(t, `<html><body><div class="wrap"><div class="wrap"><span id="s"></span></div></div></body></html>`)
	inner := doc.ByID("s").Closest(".wrap")
	require.NotNil(t, inner)

	assert.Len(t, inner.QueryAll(".wrap"), 0)
	assert.Len(t, inner.Parent().QueryAll(".wrap"), 1)
	assert.True(t, inner.Is("div.wrap"))
	assert.Nil(t, doc.ByID("s").Closest(".none"))
}

func TestBindOnceAttachesOneListener(t *testing.T) {
	doc := mustParse(t, page)
	toggle := doc.ByID("cart-toggle")

	calls := 0
	h := func(context.Context, *Event) error { calls++; return nil }
	assert.True(t, doc.BindOnce(toggle, "click", h))
	assert.False(t, doc.BindOnce(doc.Query("#cart-toggle"), "click", h))
	assert.True(t, doc.BindOnce(toggle, "mouseover", h))

	assert.Equal(t, 1, doc.ListenerCount(toggle, "click"))
	_, err := doc.Dispatch(context.Background(), toggle, "click")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDispatchBubblesAndStops(t *testing.T) {
	doc := mustParse(t, page)
	link := doc.ByID("cart-toggle")
	nav := link.Parent()

	var order []string
	doc.AddEventListener(link, "click", func(_ context.Context, ev *Event) error {
		order = append(order, "link")
		ev.PreventDefault()
		return nil
	})
	doc.AddEventListener(nav, "click", func(_ context.Context, ev *Event) error {
		order = append(order, "nav")
		assert.True(t, ev.Target.Same(link))
		assert.True(t, ev.CurrentTarget.Same(nav))
		return errors.New("nav failed")
	})
	doc.AddEventListener(doc.Body(), "click", func(_ context.Context, ev *Event) error {
		order = append(order, "body")
		ev.StopPropagation()
		return nil
	})
	doc.AddEventListener(nav.Parent().Parent(), "click", func(context.Context, *Event) error {
		order = append(order, "html")
		return nil
	})

	ev, err := doc.Dispatch(context.Background(), link, "click")
	assert.EqualError(t, err, "nav failed")
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, []string{"link", "nav", "body"}, order)
}

func TestDispatchSkipsDisabledControls(t *testing.T) {
	doc := mustParse(t, page)
	btn := doc.ByID("add")
	called := false
	doc.AddEventListener(btn, "click", func(context.Context, *Event) error { called = true; return nil })

	_, err := doc.Dispatch(context.Background(), btn, "click")
	require.NoError(t, err)
	assert.False(t, called)

	btn.SetDisabled(false)
	_, err = doc.Dispatch(context.Background(), btn, "click")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestClearDropsListenersOfRemovedNodes(t *testing.T) {
	doc := mustParse(t, page)
	body := doc.ByID("cart-body")
	stale := body.Query(".old")
	doc.BindOnce(stale, "click", func(context.Context, *Event) error { return nil })
	require.True(t, doc.Bound(stale, "click"))

	body.Clear()
	assert.False(t, doc.Bound(stale, "click"))
	assert.Equal(t, 0, doc.ListenerCount(stale, "click"))
}
