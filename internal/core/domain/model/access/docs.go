// Package access models staff authorization: roles granting permissions and
// assignments binding a user to one role per kitchen.
package access
