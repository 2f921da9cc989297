package generate_test

import (
	"fmt"

	"github.com/walteh/dimigrate/pkg/generate"
)

func ExampleGenerator_Factory() {
	table, err := generate.NewTable([]generate.Target{
		{
			Name:    "TerminalScreen",
			Factory: "fun terminalViewModel(): TerminalViewModel {\n\treturn TerminalViewModel(AppContainer.provideServerRepository())\n}",
			Call:    "terminalViewModel()",
		},
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	block, err := generate.New(table).Factory("TerminalScreen", generate.Style{Indent: "  "})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(block.Text)
	fmt.Printf("Signature: %s\n", block.Signature)

	// Output:
	// fun terminalViewModel(): TerminalViewModel {
	//   return TerminalViewModel(AppContainer.provideServerRepository())
	// }
	// Signature: fun terminalViewModel(
}
