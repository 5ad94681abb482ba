package jack

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed stdlib.json
var stdlibJSON string

// stdlibClass/stdlibSubroutine/stdlibVar mirror stdlib.json's shape exactly; Class and
// Subroutine themselves can't be unmarshaled directly since utils.OrderedMap keeps its
// backing fields private to guarantee insertion order, so this package converts the
// plain-JSON shape into the canonical AST types once at init time.
type stdlibClass struct {
	Name        string             `json:"name"`
	Subroutines []stdlibSubroutine `json:"subroutines"`
}

type stdlibSubroutine struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Return    string      `json:"return"`
	Arguments []stdlibVar `json:"arguments"`
}

type stdlibVar struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// StandardLibraryABI holds the signatures of the Jack OS classes (Math, String,
// Array, Memory, Screen, Keyboard, Output, Sys) every Jack program links against
// without defining itself, so FuncCallExpr resolution and the type checker can tell a
// call to Output.printInt from a call to a missing user class.
var StandardLibraryABI = map[string]Class{}

func init() {
	var raw []stdlibClass
	if err := json.Unmarshal([]byte(stdlibJSON), &raw); err != nil {
		panic(fmt.Errorf("jack: malformed embedded stdlib.json: %w", err))
	}

	for _, rc := range raw {
		class := Class{Name: rc.Name}
		for _, rs := range rc.Subroutines {
			sub := Subroutine{
				Name:   rs.Name,
				Type:   SubroutineType(rs.Type),
				Return: PrimitiveOrObject(rs.Return),
			}
			for _, ra := range rs.Arguments {
				sub.Arguments.Set(ra.Name, Variable{Name: ra.Name, VarType: Parameter, DataType: PrimitiveOrObject(ra.Type)})
			}
			class.Subroutines.Set(sub.Name, sub)
		}
		StandardLibraryABI[class.Name] = class
	}
}
