// Package shared holds helpers used across the internal packages that do not
// belong to any one layer.
//
// The testutil subpackage captures slog output in tests:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    svc := NewService(logger)
//	    svc.Do()
//	    testutil.AssertLogContains(t, handler, slog.LevelInfo, "done")
//	}
package shared
