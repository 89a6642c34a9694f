// Package gpu uploads icosahedron buffers to OpenGL 4.1 core and compiles
// the shaders that draw them. Every function needs a current GL context.
package gpu

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Capabilities describes the current OpenGL driver.
type Capabilities struct {
	Vendor      string
	Renderer    string
	Version     string
	GLSLVersion string
	Extensions  []string
	MaxTexture  int32
}

// Init loads the GL function pointers and reads the driver capabilities.
func Init() (*Capabilities, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return DetectCapabilities(), nil
}

// DetectCapabilities queries the driver strings and extension list.
func DetectCapabilities() *Capabilities {
	caps := &Capabilities{
		Vendor:      gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:    gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:     gl.GoStr(gl.GetString(gl.VERSION)),
		GLSLVersion: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}

	var count int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &count)
	caps.Extensions = make([]string, 0, count)
	for i := range uint32(count) {
		caps.Extensions = append(caps.Extensions, gl.GoStr(gl.GetStringi(gl.EXTENSIONS, i)))
	}
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &caps.MaxTexture)

	return caps
}

// IsSupported reports whether the driver lists the named extension.
func (c *Capabilities) IsSupported(ext string) bool {
	return slices.Contains(c.Extensions, ext)
}

// VBOSupported reports whether vertex buffer objects are available. They
// are core since OpenGL 1.5, so any core context qualifies.
func (c *Capabilities) VBOSupported() bool {
	return c.Version != "" || c.IsSupported("GL_ARB_vertex_buffer_object")
}

// Describe writes a driver summary to w.
func (c *Capabilities) Describe(w io.Writer) error {
	vbo := "not supported"
	if c.VBOSupported() {
		vbo = "supported"
	}
	_, err := fmt.Fprintf(w,
		"===== OpenGL Driver =====\n"+
			"      Vendor: %s\n"+
			"    Renderer: %s\n"+
			"     Version: %s\n"+
			"        GLSL: %s\n"+
			"  Extensions: %d\n"+
			" Max Texture: %d\n"+
			"         VBO: %s\n",
		c.Vendor, c.Renderer, c.Version, c.GLSLVersion,
		len(c.Extensions), c.MaxTexture, vbo)
	return err
}

// String implements fmt.Stringer using Describe.
func (c *Capabilities) String() string {
	var sb strings.Builder
	_ = c.Describe(&sb)
	return sb.String()
}
