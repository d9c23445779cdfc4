// Package coredata turns an in-memory object graph into the rows of a Core
// Data SQLite store.
//
// The serializer subpackage walks the graph reachable from a root value,
// assigns every object a key within its type, and produces one Command per
// object. Commands render as SQL through the dialect subpackage and can be
// applied to a database with dialect/sql:
//
//	s, err := serializer.New(factory)
//	if err != nil {
//	    return err
//	}
//	script, err := s.SQL()
//	if err != nil {
//	    return err
//	}
//	if _, err := drv.ExecScript(ctx, script); err != nil {
//	    return err
//	}
//
// This package holds the types shared by the subpackages: Command and the
// error types every operation reports.
package coredata
