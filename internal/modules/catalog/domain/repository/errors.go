package repository

import "errors"

// ErrPersistenceConflict 自然键查到多行，说明唯一约束被破坏；只影响当前这条记录
var ErrPersistenceConflict = errors.New("persistence conflict: natural key matches more than one row")
