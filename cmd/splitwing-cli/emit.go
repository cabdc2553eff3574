package main

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// emit prints result per --emit: "text" uses textRepr, "cbor" writes the
// CBOR encoding of result to stdout.
func emit(result any, textRepr string) error {
	switch emitFlag {
	case "cbor":
		encoded, err := cbor.Marshal(result)
		if err != nil {
			return fmt.Errorf("emit: cbor encode: %w", err)
		}
		_, err = os.Stdout.Write(encoded)
		return err
	default:
		fmt.Println(textRepr)
		return nil
	}
}
