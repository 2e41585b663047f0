package db

// sqlTimeLayout is the timestamp format understood by SQLite date functions.
const sqlTimeLayout = "2006-01-02 15:04:05"
