package wrap

import (
	"context"
	"errors"
	"testing"
)

func TestError_Nil(t *testing.T) {
	if err := Error(context.Background(), nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestError_KeepsChainAndContext(t *testing.T) {
	base := errors.New("boom")
	ctx := WithAction(context.Background(), "inner")
	ctx = WithRequestID(ctx, "req-1")

	err := Error(ctx, base)
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error lost its cause")
	}

	outer := Error(WithAction(context.Background(), "outer"), err)
	if outer.Error() != "boom" {
		t.Fatalf("unexpected message %q", outer.Error())
	}

	lc := FromContext(ErrorCtx(WithSessionKey(context.Background(), "sk"), err))
	if lc.Action != "inner" || lc.RequestID != "req-1" || lc.SessionKey != "sk" {
		t.Fatalf("unexpected log ctx %+v", lc)
	}
}

func TestWithLogCtx_Merges(t *testing.T) {
	ctx := WithLogCtx(context.Background(), LogCtx{Action: "a", UserID: "u"})
	ctx = WithLogCtx(ctx, LogCtx{PackageID: "p"})

	lc := FromContext(ctx)
	if lc.Action != "a" || lc.UserID != "u" || lc.PackageID != "p" {
		t.Fatalf("unexpected merge result %+v", lc)
	}
}
