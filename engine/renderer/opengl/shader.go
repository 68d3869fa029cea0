package opengl

import (
	"errors"
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/spaghettifunk/texloader/engine/core"
)

var (
	ErrShaderCompile = errors.New("opengl: shader compilation failed")
	ErrProgramLink   = errors.New("opengl: program link failed")
)

const vertexShaderSource = `
attribute vec4 aPosition;
attribute vec2 aTexCoord;
varying vec2 vTexCoord;
void main()
{
  vTexCoord = aTexCoord;
  gl_Position = aPosition;
}
` + "\x00"

const fragmentShaderSource = `
precision mediump float;
varying vec2 vTexCoord;
uniform sampler2D sTexture;
void main()
{
  gl_FragColor = texture2D(sTexture, vTexCoord);
}
` + "\x00"

func compileShader(shaderType uint32, source string) (uint32, error) {
	handle := gl.CreateShader(shaderType)
	if handle == 0 {
		return 0, fmt.Errorf("%w: glCreateShader returned 0", ErrShaderCompile)
	}

	csources, free := gl.Strs(source)
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(info))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("%w: %s", ErrShaderCompile, strings.TrimRight(info, "\x00"))
	}
	return handle, nil
}

// createProgram compiles both stages and links them. The shader objects are
// released once the program owns them.
func createProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertex, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragment)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	checkError("glAttachShader")
	gl.AttachShader(program, fragment)
	checkError("glAttachShader")
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(info))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", ErrProgramLink, strings.TrimRight(info, "\x00"))
	}
	return program, nil
}

func checkError(function string) {
	if e := gl.GetError(); e != gl.NO_ERROR {
		core.LogError("%s returned glError 0x%x", function, e)
	}
}
