/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package utils provides helpers to read values from database result rows.
package utils

import (
	"fmt"
	"strconv"
	"time"
)

// GetString reads a text column. Drivers return either string or []byte.
func GetString(row map[string]any, column string) (string, error) {
	switch v := row[column].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unexpected type %T for column %s", v, column)
	}
}

// GetInt64 reads an integer column.
func GetInt64(row map[string]any, column string) (int64, error) {
	switch v := row[column].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T for column %s", v, column)
	}
}

// GetInt reads an integer column into an int.
func GetInt(row map[string]any, column string) (int, error) {
	v, err := GetInt64(row, column)
	return int(v), err
}

// GetBool reads a SMALLINT flag column.
func GetBool(row map[string]any, column string) (bool, error) {
	if b, ok := row[column].(bool); ok {
		return b, nil
	}
	v, err := GetInt64(row, column)
	return v != 0, err
}

// GetUnixMilli reads a BIGINT epoch milliseconds column as time.
func GetUnixMilli(row map[string]any, column string) (time.Time, error) {
	v, err := GetInt64(row, column)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(v), nil
}
