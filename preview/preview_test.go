// ABOUTME: Tests for preview synthesis: verbatim shader embedding, texture substitution, and determinism.
// ABOUTME: Covers Provider freshness, the staleness channel, and scheme routing in Registry.

package preview

import (
	"errors"
	"strings"
	"testing"

	"github.com/2389-research/glslpreview/config"
	"github.com/2389-research/glslpreview/workspace"
)

const solidWhite = `void main(){ gl_FragColor = vec4(1.0); }`

// fragmentBlock returns the contents of the fragment shader script element.
func fragmentBlock(t *testing.T, page string) string {
	t.Helper()
	const open = `<script id="fs" type="x-shader/x-fragment">`
	start := strings.Index(page, open)
	if start < 0 {
		t.Fatal("fragment shader block not found")
	}
	rest := page[start+len(open):]
	end := strings.Index(rest, "</script>")
	if end < 0 {
		t.Fatal("fragment shader block not closed")
	}
	return rest[:end]
}

func TestRenderEmbedsShaderVerbatimInFragmentBlock(t *testing.T) {
	page := Render(solidWhite, nil)

	block := fragmentBlock(t, page)
	if !strings.Contains(block, solidWhite) {
		t.Fatalf("expected fragment block to contain %q, got:\n%s", solidWhite, block)
	}
	if !strings.Contains(block, "uniform vec3        iResolution;") {
		t.Error("expected uniform preamble in fragment block")
	}
	if strings.Index(block, "iChannel3;") > strings.Index(block, solidWhite) {
		t.Error("expected uniforms to precede the shader source")
	}
}

func TestRenderKeepsTemplateWhitespace(t *testing.T) {
	page := Render("SHADER", nil)

	if !strings.Contains(page, "iSampleRate;\n                    \n                    SHADER\n") {
		t.Error("expected the indented blank line before the shader source")
	}
	if !strings.Contains(page, "channelResolution, channelResolution]   \n") {
		t.Error("expected trailing spaces after the channel resolution array")
	}
}

func TestRenderDoesNotEscapeShaderSource(t *testing.T) {
	src := `// a < b && c > d "quoted" 'single'
void main(){ if (1 < 2) gl_FragColor = vec4(0.5); }`
	page := Render(src, nil)
	if !strings.Contains(page, src) {
		t.Fatal("expected shader source to appear unescaped")
	}
}

func TestRenderSubstitutesTextures(t *testing.T) {
	page := Render(solidWhite, config.Textures{"0": "tex/a.png", "3": "https://example.com/d.jpg"})

	want := []string{
		`iChannel0: { type: "t", value: THREE.ImageUtils.loadTexture("tex/a.png") }`,
		`iChannel1: { type: "t", value: THREE.ImageUtils.loadTexture("") }`,
		`iChannel2: { type: "t", value: THREE.ImageUtils.loadTexture("") }`,
		`iChannel3: { type: "t", value: THREE.ImageUtils.loadTexture("https://example.com/d.jpg") }`,
	}
	for _, w := range want {
		if !strings.Contains(page, w) {
			t.Errorf("expected page to contain %q", w)
		}
	}
}

func TestRenderWithMissingTextureKeysSucceeds(t *testing.T) {
	cases := []config.Textures{
		nil,
		{},
		{"1": "only-one.png"},
		{"7": "out-of-range.png"},
	}
	for _, tex := range cases {
		page := Render(solidWhite, tex)
		if !strings.Contains(page, solidWhite) {
			t.Errorf("textures %v: shader missing from page", tex)
		}
		if strings.Contains(page, "out-of-range.png") {
			t.Errorf("textures %v: unexpected channel outside 0..3 rendered", tex)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	tex := config.Textures{"0": "a.png", "1": "b.png"}
	first := Render(solidWhite, tex)
	second := Render(solidWhite, tex)
	if first != second {
		t.Fatal("expected byte-identical output for identical inputs")
	}
}

func TestRenderKeepsFrameIndexConstant(t *testing.T) {
	page := Render(solidWhite, nil)
	if !strings.Contains(page, `shader.uniforms['iFrame'].value = 0;`) {
		t.Fatal("expected frame index to stay constant")
	}
}

func newTestProvider(t *testing.T, text string, tex config.Textures) (*Provider, *workspace.Workspace, *config.Store) {
	t.Helper()
	ws := workspace.New(t.TempDir())
	if _, err := ws.OpenText("untitled:shader", text); err != nil {
		t.Fatalf("open text: %v", err)
	}
	if err := ws.SetActive("untitled:shader"); err != nil {
		t.Fatalf("set active: %v", err)
	}
	store := config.NewStaticStore(config.Settings{ShaderToy: config.ShaderToy{Textures: tex}})
	return NewProvider(ws, store), ws, store
}

func TestProvideContentReadsCurrentDocument(t *testing.T) {
	p, ws, _ := newTestProvider(t, "void main(){ /* one */ }", nil)

	first, err := p.ProvideContent(URI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(first, "/* one */") {
		t.Fatal("expected first render to contain original text")
	}

	ws.ApplyEdit("untitled:shader", "void main(){ /* two */ }", workspace.SourceClient)

	second, err := p.ProvideContent(URI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(second, "/* two */") || strings.Contains(second, "/* one */") {
		t.Fatal("expected second render to reflect the edit")
	}
}

func TestProvideContentIsIdempotentWithoutChanges(t *testing.T) {
	p, _, _ := newTestProvider(t, solidWhite, config.Textures{"0": "a.png"})

	a, err := p.ProvideContent(URI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.ProvideContent(URI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatal("expected identical output")
	}
}

func TestProvideContentWithoutActiveDocument(t *testing.T) {
	ws := workspace.New(t.TempDir())
	p := NewProvider(ws, config.NewStaticStore(config.Settings{}))

	_, err := p.ProvideContent(URI)
	if !errors.Is(err, ErrNoActiveDocument) {
		t.Fatalf("expected ErrNoActiveDocument, got %v", err)
	}
}

func TestProvideContentUnknownURI(t *testing.T) {
	p, _, _ := newTestProvider(t, solidWhite, nil)
	_, err := p.ProvideContent(Scheme + "://authority/other")
	if !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestUpdateSignalsWithoutRendering(t *testing.T) {
	p, _, _ := newTestProvider(t, solidWhite, nil)

	var got []string
	d := p.OnDidChange(func(uri string) { got = append(got, uri) })

	p.Update(URI)
	d.Dispose()
	p.Update(URI)

	if len(got) != 1 || got[0] != URI {
		t.Fatalf("expected one notification for %s, got %v", URI, got)
	}
}

func TestRegistryRoutesByScheme(t *testing.T) {
	p, _, _ := newTestProvider(t, solidWhite, nil)
	r := NewRegistry()

	reg, err := r.Register(Scheme, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Register(Scheme, p); !errors.Is(err, ErrSchemeTaken) {
		t.Fatalf("expected ErrSchemeTaken, got %v", err)
	}

	page, err := r.Provide(URI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(page, solidWhite) {
		t.Fatal("expected routed content")
	}

	if _, err := r.Provide("other://x"); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
	if _, err := r.Provide("no-scheme"); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}

	reg.Dispose()
	if _, err := r.Provide(URI); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider after dispose, got %v", err)
	}
}
