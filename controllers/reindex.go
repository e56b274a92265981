package controllers

import (
	"fmt"

	"gorm.io/gorm"
)

// Ordered lists (chapters within a course, materials/questions within a
// chapter) keep a dense 1..N position per parent. The helpers below are
// the single implementation of that invariant; callers wrap them in a
// transaction. Two clients reordering the same list at once are
// serialized only by the database's row locks.

// nextPosition appends at the end: max existing position + 1.
func nextPosition(tx *gorm.DB, table, parentCol string, parentID uint) (int, error) {
	var maxPos int
	err := tx.Table(table).
		Where(parentCol+" = ?", parentID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error
	if err != nil {
		return 0, err
	}
	return maxPos + 1, nil
}

// closeGapAfterDelete shifts every row past the deleted position down by
// one, restoring density.
func closeGapAfterDelete(tx *gorm.DB, table, parentCol string, parentID uint, deletedPos int) error {
	return tx.Table(table).
		Where(parentCol+" = ? AND position > ?", parentID, deletedPos).
		UpdateColumn("position", gorm.Expr("position - 1")).Error
}

// applyReorder rewrites positions 1..N in the supplied id order. Every id
// must already belong to the parent; validateReorderIDs checks that
// before the transaction starts so a bad request changes nothing.
func applyReorder(tx *gorm.DB, table string, orderedIDs []uint) error {
	for i, id := range orderedIDs {
		err := tx.Table(table).
			Where("id = ?", id).
			Update("position", i+1).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// validateReorderIDs returns the id (as an error) of the first entry that
// does not belong to the parent.
func validateReorderIDs(db *gorm.DB, table, parentCol string, parentID uint, orderedIDs []uint) error {
	var ids []uint
	err := db.Table(table).
		Where(parentCol+" = ?", parentID).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	existing := make(map[uint]bool, len(ids))
	for _, id := range ids {
		existing[id] = true
	}
	for _, id := range orderedIDs {
		if !existing[id] {
			return fmt.Errorf("not_in_parent:%d", id)
		}
	}
	return nil
}

// moveToPosition moves one row to newPos, shifting the rows strictly
// between the old and new position by one. The caller clamps newPos to
// [1, count] beforehand.
func moveToPosition(tx *gorm.DB, table, parentCol string, parentID, id uint, oldPos, newPos int) error {
	if newPos == oldPos {
		return nil
	}
	if newPos < oldPos {
		err := tx.Table(table).
			Where(parentCol+" = ? AND position >= ? AND position < ?", parentID, newPos, oldPos).
			UpdateColumn("position", gorm.Expr("position + 1")).Error
		if err != nil {
			return err
		}
	} else {
		err := tx.Table(table).
			Where(parentCol+" = ? AND position > ? AND position <= ?", parentID, oldPos, newPos).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
		if err != nil {
			return err
		}
	}
	return tx.Table(table).Where("id = ?", id).Update("position", newPos).Error
}
