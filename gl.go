package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/inrick/chip8vm/chip8"
)

var (
	vertexShaderGlsl = `
	  #version 410 core
	  in vec2 pos;
	  void main() {
	   gl_Position = vec4(pos, 0.0, 1.0);
	  }`
	fragmentShaderGlsl = `
	  #version 410 core
	  out vec4 color;
	  void main() {
	    color = vec4(0.85, 0.85, 0.85, 1.0);
	  }`
)

// glFrontend renders the display as lit quads in an OpenGL window.
type glFrontend struct {
	window *glfw.Window
	vertex []uint32
	keys   [0x10]bool
}

func newGLFrontend(scale int) (*glFrontend, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width := chip8.DisplayWidth * scale
	height := chip8.DisplayHeight * scale
	window, err := glfw.CreateWindow(width, height, "Chip-8", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	window.MakeContextCurrent()

	vertex, err := glSetup()
	if err != nil {
		glfw.Terminate()
		return nil, err
	}

	g := &glFrontend{window: window, vertex: vertex}
	window.SetKeyCallback(g.keyHandler)
	window.SetSizeCallback(resizeHandler)
	gl.ClearColor(.1, .1, .1, 0)
	return g, nil
}

func resizeHandler(w *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (g *glFrontend) keyHandler(
	window *glfw.Window, key glfw.Key, scancode int,
	action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		window.SetShouldClose(true)
		return
	}
	// Letter and digit keys share their ASCII codes.
	k, ok := keypadIndex(rune(key))
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		g.keys[k] = true
	case glfw.Release:
		g.keys[k] = false
	}
}

func (g *glFrontend) Poll(c8 *chip8.Machine) bool {
	glfw.PollEvents()
	for k, pressed := range g.keys {
		c8.SetKey(uint8(k), pressed)
	}
	return g.window.ShouldClose()
}

func (g *glFrontend) Draw(c8 *chip8.Machine) error {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	n := fillVerticesToDraw(c8, g.vertex)
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, n*4, gl.Ptr(g.vertex))
	gl.DrawElements(gl.TRIANGLES, int32(n), gl.UNSIGNED_INT, gl.PtrOffset(0))
	g.window.SwapBuffers()
	if err := gl.GetError(); err != gl.NO_ERROR {
		return fmt.Errorf("GL error: 0x%x", err)
	}
	return nil
}

func (g *glFrontend) Close() {
	glfw.Terminate()
}

func fillVerticesToDraw(c8 *chip8.Machine, vertex []uint32) int {
	h := chip8.DisplayHeight + 1
	n := 0
	for x := 0; x < chip8.DisplayWidth; x++ {
		for y := 0; y < chip8.DisplayHeight; y++ {
			if c8.Pixel(x, y) {
				// Corners of quad
				q1 := uint32(x*h + y)
				q2 := uint32(x*h + y + 1)
				q3 := uint32((x+1)*h + y)
				q4 := uint32((x+1)*h + y + 1)
				vertex[n+0] = q1
				vertex[n+1] = q2
				vertex[n+2] = q3
				vertex[n+3] = q2
				vertex[n+4] = q3
				vertex[n+5] = q4
				n += 6
			}
		}
	}
	return n // Number of vertices
}

func checkShaderError(shader uint32) error {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", 1+int(length))
		gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
		return errors.New(log)
	}
	return nil
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	defer free()
	gl.ShaderSource(shader, 1, csource, nil)
	gl.CompileShader(shader)
	return shader, checkShaderError(shader)
}

func glSetup() (vertex []uint32, err error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	// The vertices are numbered starting from the top left and going down,
	// proceeding right after the last row is reached. The vertex at position
	// (x,y) is numbered 33*x+y:
	//   - (0,0) is vertex 0
	//   - (0,1) is vertex 1
	//   - (1,0) is vertex 33
	//   - etc.
	//
	//      x  0 1     ...      64
	//      --->
	//  y |
	//    |  +---------------------+
	//  0 v  | . . . . . . . . . . |
	//  1    | . . . . . . . . . . |
	// ...   | . . . . . . . . . . |
	// 32    | . . . . . . . . . . |
	//       +---------------------+
	w, h := chip8.DisplayWidth+1, chip8.DisplayHeight+1
	ncoords := w * h * 2 // 2 coordinates for each vertex
	buf := make([]float32, ncoords)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			i := 2 * (x*h + y)
			buf[i] = -1 + float32(x)/float32(chip8.DisplayWidth/2)
			buf[i+1] = 1 - float32(y)/float32(chip8.DisplayHeight/2)
		}
	}

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STATIC_DRAW)

	// 65*33 quads, each quad needs 6 vertices
	vertex = make([]uint32, ncoords*3)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(
		gl.ELEMENT_ARRAY_BUFFER, len(vertex)*4, gl.Ptr(vertex), gl.DYNAMIC_DRAW)

	vertexShader, err := compileShader(gl.VERTEX_SHADER, vertexShaderGlsl)
	if err != nil {
		return nil, fmt.Errorf("Vertex shader error: %v", err)
	}
	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, fragmentShaderGlsl)
	if err != nil {
		return nil, fmt.Errorf("Fragment shader error: %v", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.BindFragDataLocation(program, 0, gl.Str("color\x00"))
	gl.LinkProgram(program)
	gl.UseProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", 1+int(length))
		gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
		return nil, fmt.Errorf("Program link error: %s", log)
	}

	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)

	if err := gl.GetError(); err != gl.NO_ERROR {
		return nil, fmt.Errorf("GL error: 0x%x", err)
	}

	return vertex, nil
}
