package valuetype

import "encoding/json"

// AccessListEntry is one (address, storage keys) pair of an EIP-2930 access
// list.
type AccessListEntry struct {
	Address     Address
	StorageKeys []Hash
}

// AccessList is an ordered sequence of entries.
type AccessList []AccessListEntry

type accessListEntryJSON struct {
	Address     Address `json:"address"`
	StorageKeys []Hash  `json:"storageKeys"`
}

func (e AccessListEntry) MarshalJSON() ([]byte, error) {
	keys := e.StorageKeys
	if keys == nil {
		keys = []Hash{}
	}
	return json.Marshal(accessListEntryJSON{Address: e.Address, StorageKeys: keys})
}

func (e *AccessListEntry) UnmarshalJSON(data []byte) error {
	var j accessListEntryJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	e.Address = j.Address
	e.StorageKeys = j.StorageKeys
	return nil
}
