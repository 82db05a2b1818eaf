package logger_test

import (
	"testing"

	"github.com/jsemit/chunkgen/internal/logger"
	"github.com/jsemit/chunkgen/internal/test"
)

func TestMsgIDs(t *testing.T) {
	for id := logger.MsgID_None + 1; id < logger.MsgID_END; id++ {
		str := logger.MsgIDToString(id)
		if str == "" {
			t.Fatalf("Missing string for message id %d", id)
		}

		found, ok := logger.StringToMsgID(str)
		if !ok {
			t.Fatalf("Failed to find message id for the string %q", str)
		}
		test.AssertEqual(t, found, id)
	}
}

func TestDeferLogDrainsOnce(t *testing.T) {
	log := logger.NewDeferLog()
	log.AddMsg(logger.MissingNameOptionForIifeExport())
	log.AddMsg(logger.MissingGlobalName("fs", "fs"))
	test.AssertEqual(t, log.HasErrors(), false)

	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 2)
	test.AssertEqual(t, msgs[0].ID, logger.MsgID_Output_MissingNameOptionForIifeExport)
	test.AssertEqual(t, msgs[1].Data.Specifier, "fs")
	test.AssertEqual(t, len(log.Done()), 0)

	log.AddMsg(logger.IllegalIdentifierAsName("1a"))
	test.AssertEqual(t, log.HasErrors(), true)
}

func TestMsgString(t *testing.T) {
	msg := logger.MissingGlobalName("node:path", "node_path").InChunk("main.js")
	test.AssertEqualWithDiff(t, logger.MsgsToString([]logger.Msg{msg}),
		"main.js: warning: No name was provided for external module \"node:path\" in \"output.globals\", guessing \"node_path\". [missing-global-name]\n")

	msg = logger.IllegalIdentifierAsName("a-b")
	test.AssertEqualWithDiff(t, msg.String(logger.StderrOptions{}, logger.TerminalInfo{}),
		"error: Given name \"a-b\" is not a legal JS identifier. If you need this, you can try \"output.extend: true\". [illegal-identifier-as-name]\n")
	test.AssertEqual(t, msg.Data.ConfiguredName, "a-b")
}

func TestInvalidExportOptionText(t *testing.T) {
	msg := logger.InvalidExportOption("default", "src/main.js", []string{"a", "default"})
	test.AssertEqual(t, msg.Kind, logger.Error)
	test.AssertEqual(t, msg.Text,
		"\"default\" was specified for \"output.exports\", but entry module \"src/main.js\" has the following exports: \"a\", \"default\"")
}

func TestStderrLogSortsByChunk(t *testing.T) {
	log := logger.NewStderrLog(logger.StderrOptions{LogLevel: logger.LevelSilent})
	log.AddMsg(logger.MissingGlobalName("fs", "fs").InChunk("b"))
	log.AddMsg(logger.MixedExport("/src/a.js").InChunk("a"))
	log.AddMsg(logger.IllegalIdentifierAsName("1a").InChunk("b"))
	test.AssertEqual(t, log.HasErrors(), true)

	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 3)
	test.AssertEqual(t, msgs[0].ID, logger.MsgID_Output_MixedExport)
	test.AssertEqual(t, msgs[1].Kind, logger.Error)
	test.AssertEqual(t, msgs[2].Data.Specifier, "fs")
}
