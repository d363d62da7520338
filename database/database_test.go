package database_test

import (
	"bytes"
	"testing"

	"github.com/dagnet/dagd/database"
)

func TestPut(t *testing.T) {
	testForAllDatabaseTypes(t, "TestPut", testPut)
}

func testPut(t *testing.T, db database.Database, testName string) {
	// Put value1 into the database
	key := database.MakeBucket().Key([]byte("key"))
	value1 := []byte("value1")
	err := db.Put(key, value1)
	if err != nil {
		t.Fatalf("%s: Put unexpectedly "+
			"failed: %s", testName, err)
	}

	// Make sure that the returned value is value1
	returnedValue, err := db.Get(key)
	if err != nil {
		t.Fatalf("%s: Get unexpectedly "+
			"failed: %s", testName, err)
	}
	if !bytes.Equal(returnedValue, value1) {
		t.Fatalf("%s: Get returned "+
			"wrong value. Want: %s, got: %s", testName,
			string(value1), string(returnedValue))
	}

	// Put value2 into the database with the same key
	value2 := []byte("value2")
	err = db.Put(key, value2)
	if err != nil {
		t.Fatalf("%s: Put unexpectedly "+
			"failed: %s", testName, err)
	}

	// Make sure that the returned value is now value2
	returnedValue, err = db.Get(key)
	if err != nil {
		t.Fatalf("%s: Get unexpectedly "+
			"failed: %s", testName, err)
	}
	if !bytes.Equal(returnedValue, value2) {
		t.Fatalf("%s: Get returned "+
			"wrong value. Want: %s, got: %s", testName,
			string(value2), string(returnedValue))
	}
}

func TestGet(t *testing.T) {
	testForAllDatabaseTypes(t, "TestGet", testGet)
}

func testGet(t *testing.T, db database.Database, testName string) {
	// Get from a non-existent key and make sure that
	// the returned error is ErrNotFound
	key := database.MakeBucket().Key([]byte("key"))
	_, err := db.Get(key)
	if err == nil {
		t.Fatalf("%s: Get unexpectedly "+
			"succeeded", testName)
	}
	if !database.IsNotFoundError(err) {
		t.Fatalf("%s: Get returned "+
			"wrong error: %s", testName, err)
	}
}

func TestHas(t *testing.T) {
	testForAllDatabaseTypes(t, "TestHas", testHas)
}

func testHas(t *testing.T, db database.Database, testName string) {
	// Make sure that Has returns false for a non-existent key
	key := database.MakeBucket().Key([]byte("key"))
	exists, err := db.Has(key)
	if err != nil {
		t.Fatalf("%s: Has unexpectedly "+
			"failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: Has unexpectedly "+
			"returned that the value exists", testName)
	}

	// Put a value into the database
	value := []byte("value")
	err = db.Put(key, value)
	if err != nil {
		t.Fatalf("%s: Put unexpectedly "+
			"failed: %s", testName, err)
	}

	// Make sure that Has returns true for the existing key
	exists, err = db.Has(key)
	if err != nil {
		t.Fatalf("%s: Has unexpectedly "+
			"failed: %s", testName, err)
	}
	if !exists {
		t.Fatalf("%s: Has unexpectedly "+
			"returned that the value does not exist", testName)
	}
}

func TestDelete(t *testing.T) {
	testForAllDatabaseTypes(t, "TestDelete", testDelete)
}

func testDelete(t *testing.T, db database.Database, testName string) {
	// Put a value into the database
	key := database.MakeBucket().Key([]byte("key"))
	value := []byte("value")
	err := db.Put(key, value)
	if err != nil {
		t.Fatalf("%s: Put unexpectedly "+
			"failed: %s", testName, err)
	}

	// Delete the value
	err = db.Delete(key)
	if err != nil {
		t.Fatalf("%s: Delete unexpectedly "+
			"failed: %s", testName, err)
	}

	// Make sure that Has returns false for the deleted key
	exists, err := db.Has(key)
	if err != nil {
		t.Fatalf("%s: Has unexpectedly "+
			"failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: Has unexpectedly "+
			"returned that the value exists", testName)
	}
}

func TestTransactionCommit(t *testing.T) {
	testForAllDatabaseTypes(t, "TestTransactionCommit", testTransactionCommit)
}

func testTransactionCommit(t *testing.T, db database.Database, testName string) {
	// Begin a new transaction
	dbTx, err := db.Begin()
	if err != nil {
		t.Fatalf("%s: Begin unexpectedly "+
			"failed: %s", testName, err)
	}
	defer func() {
		err := dbTx.RollbackUnlessClosed()
		if err != nil {
			t.Fatalf("%s: RollbackUnlessClosed "+
				"unexpectedly failed: %s", testName, err)
		}
	}()

	// Put a value into the transaction
	key := database.MakeBucket().Key([]byte("key"))
	value := []byte("value")
	err = dbTx.Put(key, value)
	if err != nil {
		t.Fatalf("%s: Put unexpectedly "+
			"failed: %s", testName, err)
	}

	// The value should not yet exist in the database
	exists, err := db.Has(key)
	if err != nil {
		t.Fatalf("%s: Has unexpectedly "+
			"failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: Has unexpectedly "+
			"returned that the value exists before commit", testName)
	}

	// Commit the transaction
	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("%s: Commit unexpectedly "+
			"failed: %s", testName, err)
	}

	// The value should now exist in the database
	exists, err = db.Has(key)
	if err != nil {
		t.Fatalf("%s: Has unexpectedly "+
			"failed: %s", testName, err)
	}
	if !exists {
		t.Fatalf("%s: Has unexpectedly "+
			"returned that the value does not exist after commit", testName)
	}
}

func TestTransactionRollback(t *testing.T) {
	testForAllDatabaseTypes(t, "TestTransactionRollback", testTransactionRollback)
}

func testTransactionRollback(t *testing.T, db database.Database, testName string) {
	// Begin a new transaction
	dbTx, err := db.Begin()
	if err != nil {
		t.Fatalf("%s: Begin unexpectedly "+
			"failed: %s", testName, err)
	}

	// Put a value into the transaction
	key := database.MakeBucket().Key([]byte("key"))
	value := []byte("value")
	err = dbTx.Put(key, value)
	if err != nil {
		t.Fatalf("%s: Put unexpectedly "+
			"failed: %s", testName, err)
	}

	// Roll the transaction back
	err = dbTx.Rollback()
	if err != nil {
		t.Fatalf("%s: Rollback unexpectedly "+
			"failed: %s", testName, err)
	}

	// The value should not exist in the database
	exists, err := db.Has(key)
	if err != nil {
		t.Fatalf("%s: Has unexpectedly "+
			"failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: Has unexpectedly "+
			"returned that the value exists after rollback", testName)
	}
}
