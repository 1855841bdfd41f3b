// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/waypoint/core"
)

// locationVersion is written first in every encoded SavedLocation.
const locationVersion uint64 = 1

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, wrapField("id", err)
	}
	return id, nil
}

// MarshalUUID serializes a UUID to bytes.
func MarshalUUID(id uuid.UUID) []byte {
	buf := make([]byte, core.UUIDMUS.Size(id))
	core.UUIDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalUUID deserializes a UUID written by MarshalUUID.
func UnmarshalUUID(data []byte) (uuid.UUID, error) {
	id, _, err := core.UUIDMUS.Unmarshal(data)
	if err != nil {
		return uuid.Nil, wrapField("uuid", err)
	}
	return id, nil
}

// MarshalLocation serializes a SavedLocation to bytes, prefixed with the
// encoding version.
func MarshalLocation(loc *core.SavedLocation) []byte {
	buf := make([]byte, varint.Uint64.Size(locationVersion)+core.SavedLocationMUS.Size(*loc))
	n := varint.Uint64.Marshal(locationVersion, buf)
	core.SavedLocationMUS.Marshal(*loc, buf[n:])
	return buf
}

// UnmarshalLocation deserializes a SavedLocation from bytes.
func UnmarshalLocation(data []byte) (*core.SavedLocation, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}

	version, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, wrapField("version", err)
	}
	if version != locationVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	loc, _, err := core.SavedLocationMUS.Unmarshal(data[n:])
	if err != nil {
		return nil, wrapField("location", err)
	}
	loc.CreatedAt = loc.CreatedAt.UTC()
	return &loc, nil
}

func wrapField(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSerializationFailed, field, err)
}
