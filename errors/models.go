package errors

const (
	ObjectIDNotFoundErrorCode   = 200_002
	DuplicatedObjectIDErrorCode = 200_003
)

// ObjectIDNotFoundError indicates no book, author or publisher exists with the given identifier
var ObjectIDNotFoundError Error = new(ObjectIDNotFoundErrorCode, "ObjectIDNotFound", "Item with ID %s is not exist")

// DuplicatedObjectIDError indicates the store rejected an insert because the identifier is already used
var DuplicatedObjectIDError Error = new(DuplicatedObjectIDErrorCode, "DuplicatedObjectID", "item ID %s is already used")
