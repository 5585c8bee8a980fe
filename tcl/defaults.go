package tcl

import (
	"os"
	"os/user"
	"runtime"
	"strconv"
	"strings"
)

const (
	// Version is reported through tcl_version.
	Version = "8.6"
	// PatchLevel is reported through tcl_patchLevel.
	PatchLevel = "8.6.13"
)

// seedDefaults creates the variables present in every pristine interpreter.
func (in *Interp) seedDefaults() {
	environ := in.environ
	if environ == nil {
		environ = os.Environ()
	}
	env := in.create("env")
	env.cells = newCells()
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		env.cells.set(key, value)
	}

	platform := in.create("tcl_platform")
	platform.cells = newCells()
	platform.cells.set("byteOrder", "littleEndian")
	platform.cells.set("engine", "configkit")
	platform.cells.set("machine", runtime.GOARCH)
	platform.cells.set("os", runtime.GOOS)
	platform.cells.set("platform", platformFamily())
	platform.cells.set("pointerSize", strconv.Itoa(strconv.IntSize/8))
	platform.cells.set("wordSize", strconv.Itoa(strconv.IntSize/8))
	if current, err := user.Current(); err == nil {
		platform.cells.set("user", current.Username)
	}

	in.setScalar("tcl_version", Version)
	in.setScalar("tcl_patchLevel", PatchLevel)
	in.setScalar("tcl_library", "")
	in.setScalar("tcl_interactive", "0")
	in.setScalar("auto_path", "")
	in.setScalar("argv0", "configkit")
	in.setScalar("argc", "0")
	in.setScalar("argv", "")
	in.setScalar("errorInfo", "")
	in.setScalar("errorCode", "NONE")
}

func platformFamily() string {
	if runtime.GOOS == "windows" {
		return "windows"
	}
	return "unix"
}
