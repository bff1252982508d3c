//go:build js && wasm

// This is a light wasm wrapper around the formatter, for use from a browser
// playground. You don't need to include this in your website.
package main

import (
	"syscall/js"

	"github.com/vinsidious/sqlfmt"
	"github.com/vinsidious/sqlfmt/dialect"
)

func format(this js.Value, args []js.Value) interface{} {
	dialectName := args[0].String()
	src := args[1].String()
	callback := args[2]

	d := dialect.Postgres()
	switch dialectName {
	case "mysql":
		d = dialect.MySQL()
	case "sqlite":
		d = dialect.SQLite()
	case "tsql":
		d = dialect.TSQL()
	case "oracle":
		d = dialect.Oracle()
	}

	out, err := sqlfmt.Format(src, &sqlfmt.Options{Dialect: &d, Recover: true})
	if err != nil {
		callback.Invoke(err.Error(), js.Null())
		return true
	}
	callback.Invoke(js.Null(), out)
	return true
}

func main() {
	c := make(chan bool)
	js.Global().Set("_SQLFMT", js.FuncOf(format))
	<-c
}
