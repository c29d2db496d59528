package frontend

import "fmt"

type PackageType uint8

const (
	// PackageTypeExe requires exactly one @EntryPoint() callable.
	PackageTypeExe PackageType = iota
	PackageTypeLib
)

func (t PackageType) String() string {
	if t == PackageTypeLib {
		return "lib"
	}
	return "exe"
}

func ParsePackageType(s string) (PackageType, error) {
	switch s {
	case "exe", "":
		return PackageTypeExe, nil
	case "lib":
		return PackageTypeLib, nil
	}
	return PackageTypeExe, fmt.Errorf("unknown package type %q", s)
}
