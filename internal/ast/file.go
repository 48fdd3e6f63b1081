package ast

import (
	"ripple/internal/model"
	"ripple/internal/source"
)

// File is one program: its package definitions followed by top-level
// statements. Included programs are Files too, reached through
// StmtInclude.
type File struct {
	Span     source.Span
	Path     string
	Packages []ItemID
	Stmts    []StmtID
	Sem      FileSem
}

// FileSem is filled by the verifier.
type FileSem struct {
	Frame model.FrameID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span, path string) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:     sp,
		Path:     path,
		Packages: make([]ItemID, 0),
		Stmts:    make([]StmtID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
