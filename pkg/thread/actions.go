package thread

import (
	"context"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/coordinator"
	"github.com/rytisguru/nested-comments/pkg/transport"
	"github.com/rytisguru/nested-comments/pkg/tree"
)

// Comment posts a top-level comment.
func (t *Thread) Comment(ctx context.Context, message string) (comment.Record, error) {
	return t.Reply(ctx, comment.RootID, message)
}

// Reply posts message under parentID and appends the confirmed comment. The
// reply form of the parent closes on success.
func (t *Thread) Reply(ctx context.Context, parentID, message string) (comment.Record, error) {
	if parentID != comment.RootID {
		if _, ok := t.store.Get(parentID); !ok {
			return comment.Record{}, &tree.NotFoundError{ID: parentID}
		}
	}
	if err := t.begin(parentID, coordinator.KindCreate); err != nil {
		return comment.Record{}, err
	}
	call := coordinator.Create(t.transport, parentID, t.coordOpts...)
	r, err := call.Execute(ctx, transport.CreateRequest{PostID: t.postID, ParentID: parentID, Message: message})
	t.finish(parentID, coordinator.KindCreate, err)
	if err != nil {
		return comment.Record{}, err
	}

	if err := t.applied(coordinator.KindCreate, r.ID, t.store.Append(r)); err != nil {
		return r, err
	}
	if parentID != comment.RootID {
		t.views.SetReplying(parentID, false)
	}
	return r, nil
}

// Edit replaces the message of id. Only the author may edit. The edit form
// closes on success.
func (t *Thread) Edit(ctx context.Context, id, message string) (comment.Record, error) {
	if err := t.owned(id); err != nil {
		return comment.Record{}, err
	}
	before, _ := t.store.Get(id)
	if err := t.begin(id, coordinator.KindUpdate); err != nil {
		return comment.Record{}, err
	}
	call := coordinator.Update(t.transport, id, t.coordOpts...)
	r, err := call.Execute(ctx, transport.UpdateRequest{PostID: t.postID, ID: id, Message: message})
	t.finish(id, coordinator.KindUpdate, err)
	if err != nil {
		return comment.Record{}, err
	}

	target := r.ID
	if target == "" {
		target = id
	}
	updated, err := t.store.ReplaceMessage(target, r.Message)
	if err := t.applied(coordinator.KindUpdate, target, err); err != nil {
		return comment.Record{}, err
	}
	t.views.SetEditing(id, false)
	if err != nil {
		// Removed while in flight: report the confirmed edit on the last known record.
		before.Message = r.Message
		return before, nil
	}
	return updated, nil
}

// Delete removes id and returns every id dropped from the tree. Only the
// author may delete.
func (t *Thread) Delete(ctx context.Context, id string) ([]string, error) {
	if err := t.owned(id); err != nil {
		return nil, err
	}
	if err := t.begin(id, coordinator.KindDelete); err != nil {
		return nil, err
	}
	call := coordinator.Delete(t.transport, id, t.coordOpts...)
	res, err := call.Execute(ctx, transport.DeleteRequest{PostID: t.postID, ID: id})
	t.finish(id, coordinator.KindDelete, err)
	if err != nil {
		return nil, err
	}

	removed, err := t.store.RemoveSubtree(res.ID)
	if err := t.applied(coordinator.KindDelete, res.ID, err); err != nil {
		return nil, err
	}
	t.views.Forget(removed...)
	t.forget(removed)
	return removed, nil
}

// ToggleLike flips the current user's like on id.
func (t *Thread) ToggleLike(ctx context.Context, id string) (comment.Record, error) {
	before, ok := t.store.Get(id)
	if !ok {
		return comment.Record{}, &tree.NotFoundError{ID: id}
	}
	if err := t.begin(id, coordinator.KindLike); err != nil {
		return comment.Record{}, err
	}
	call := coordinator.Like(t.transport, id, t.coordOpts...)
	res, err := call.Execute(ctx, transport.LikeRequest{PostID: t.postID, ID: id})
	t.finish(id, coordinator.KindLike, err)
	if err != nil {
		return comment.Record{}, err
	}

	r, err := t.store.SetLike(res.ID, res.AddLike)
	if err := t.applied(coordinator.KindLike, res.ID, err); err != nil {
		return comment.Record{}, err
	}
	if err != nil {
		return before.WithLike(res.AddLike), nil
	}
	return r, nil
}
