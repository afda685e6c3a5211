package mcp

import "github.com/mark3labs/mcp-go/mcp"

var learnToolDef = mcp.NewTool("ir_learn",
	mcp.WithDescription("Capture one IR command from a remote. Blocks until a signal arrives or the timeout elapses. Optionally saves the learned code under a name."),
	mcp.WithNumber("timeout_sec",
		mcp.Description("Seconds to wait for a signal (1-60, default 10)")),
	mcp.WithString("name",
		mcp.Description("Save the learned code under this name")),
	mcp.WithBoolean("save",
		mcp.Description("Save even without a name, under an auto-generated one")),
)

var learnStartToolDef = mcp.NewTool("ir_learn_start",
	mcp.WithDescription("Enter continuous learning: every captured command is saved under an auto-generated name until ir_learn_stop."),
)

var learnStopToolDef = mcp.NewTool("ir_learn_stop",
	mcp.WithDescription("Stop a continuous learning session."),
)

var saveToolDef = mcp.NewTool("ir_save",
	mcp.WithDescription("Store a named IR code supplied directly: a protocol code (protocol/value/bits) or a raw pulse recording."),
	mcp.WithString("name",
		mcp.Description("Code name (truncated to the backend key limit)")),
	mcp.WithString("protocol",
		mcp.Required(),
		mcp.Description("Protocol name (nec, samsung, sony, rc5, jvc) or \"raw\"")),
	mcp.WithNumber("value",
		mcp.Description("Decoded code value (protocol records)")),
	mcp.WithNumber("bits",
		mcp.Description("Bit count 1-64 (protocol records, default 32)")),
	mcp.WithArray("pulses",
		mcp.Description("Mark/space durations in microseconds (raw records)"),
		mcp.Items(map[string]any{"type": "number"})),
)

var listToolDef = mcp.NewTool("ir_list",
	mcp.WithDescription("List stored IR codes in the order they were saved."),
)

var deleteToolDef = mcp.NewTool("ir_delete",
	mcp.WithDescription("Delete one stored IR code by name."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Name of the code to delete")),
)

var deleteAllToolDef = mcp.NewTool("ir_delete_all",
	mcp.WithDescription("Delete every stored IR code."),
)

var sendToolDef = mcp.NewTool("ir_send",
	mcp.WithDescription("Transmit a stored IR code by name."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Name of the code to transmit")),
)

var exportToolDef = mcp.NewTool("ir_export",
	mcp.WithDescription("Export stored codes as source-level constants."),
	mcp.WithString("path",
		mcp.Description("Output file path (default: under the exports directory)")),
	mcp.WithString("format",
		mcp.Description("Export format: c (default), markdown, html"),
		mcp.Enum("c", "markdown", "html")),
)

var statusToolDef = mcp.NewTool("ir_status",
	mcp.WithDescription("Report learning state and code store occupancy."),
)
